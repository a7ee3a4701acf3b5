/*
Copyright © 2019 the verb2cdf authors.
This file is part of verb2cdf.

verb2cdf is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

verb2cdf is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with verb2cdf.  If not, see <http://www.gnu.org/licenses/>.
*/

package verb2cdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Unit is the contents of one output file: a set of named
// dimensions and the variables defined over them.
type Unit struct {
	dims    []string
	lengths []int
	attrs   [][2]string
	names   []string

	// Data holds the unit's variables, with the keys being
	// the variable names.
	Data map[string]*Variable
}

// Variable is one array in a Unit.
type Variable struct {
	Dims        []string           // netcdf dimensions for this variable
	Description string             // variable description
	Units       string             // variable units
	Double      bool               // store as 64-bit rather than 32-bit floats
	Data        *sparse.DenseArray // variable data
}

// NewUnit returns an empty Unit with the given dimension names and lengths.
// All lengths must be positive.
func NewUnit(dims []string, lengths []int) *Unit {
	if len(dims) != len(lengths) {
		panic(fmt.Errorf("verb2cdf: %d dimension names but %d lengths", len(dims), len(lengths)))
	}
	return &Unit{
		dims:    dims,
		lengths: lengths,
		Data:    make(map[string]*Variable),
	}
}

// Dims returns the dimension names and lengths of u.
func (u *Unit) Dims() ([]string, []int) { return u.dims, u.lengths }

// Variables returns the names of the variables in u in the order
// they were added.
func (u *Unit) Variables() []string { return u.names }

// AddAttribute adds a global text attribute to u.
func (u *Unit) AddAttribute(name, value string) {
	u.attrs = append(u.attrs, [2]string{name, value})
}

// AddVariable adds a variable to u that will be stored as 32-bit floats.
func (u *Unit) AddVariable(name string, dims []string, description, units string, data *sparse.DenseArray) error {
	return u.addVariable(name, &Variable{Dims: dims, Description: description, Units: units, Data: data})
}

// AddDoubleVariable adds a variable to u that will be stored as 64-bit floats.
func (u *Unit) AddDoubleVariable(name string, dims []string, description, units string, data *sparse.DenseArray) error {
	return u.addVariable(name, &Variable{Dims: dims, Description: description, Units: units, Double: true, Data: data})
}

func (u *Unit) addVariable(name string, v *Variable) error {
	if name == "" {
		return fmt.Errorf("verb2cdf: variable name is empty")
	}
	if _, ok := u.Data[name]; ok {
		return fmt.Errorf("verb2cdf: variable %s is already present", name)
	}
	shape := make([]int, len(v.Dims))
	for i, d := range v.Dims {
		j := u.dimIndex(d)
		if j < 0 {
			return fmt.Errorf("verb2cdf: variable %s: dimension %s is not defined", name, d)
		}
		shape[i] = u.lengths[j]
	}
	if v.Data == nil {
		return fmt.Errorf("verb2cdf: variable %s has no data", name)
	}
	if !equalShape(v.Data.Shape, shape) || len(v.Data.Elements) != size(shape) {
		return fmt.Errorf("verb2cdf: variable %s has shape %v but dimensions %v have lengths %v",
			name, v.Data.Shape, v.Dims, shape)
	}
	u.names = append(u.names, name)
	u.Data[name] = v
	return nil
}

func (u *Unit) dimIndex(name string) int {
	for i, d := range u.dims {
		if d == name {
			return i
		}
	}
	return -1
}

func size(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

// Write writes u to netcdf file w.
func (u *Unit) Write(w *os.File) error {
	for _, l := range u.lengths {
		if l < 1 {
			return fmt.Errorf("verb2cdf: dimension lengths %v must be positive", u.lengths)
		}
	}
	h := cdf.NewHeader(u.dims, u.lengths)
	for _, a := range u.attrs {
		h.AddAttribute("", a[0], a[1])
	}
	for _, name := range u.names {
		v := u.Data[name]
		if v.Double {
			h.AddVariable(name, v.Dims, []float64{0})
		} else {
			h.AddVariable(name, v.Dims, []float32{0})
		}
		if v.Description != "" {
			h.AddAttribute(name, "description", v.Description)
		}
		if v.Units != "" {
			h.AddAttribute(name, "units", v.Units)
		}
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, name := range u.names {
		if err = writeNCF(f, name, u.Data[name]); err != nil {
			return fmt.Errorf("verb2cdf: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCF(f *cdf.File, name string, v *Variable) error {
	var data interface{}
	if v.Double {
		data = v.Data.Elements
	} else {
		data32 := make([]float32, len(v.Data.Elements))
		for i, e := range v.Data.Elements {
			data32[i] = float32(e)
		}
		data = data32
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data)
	return err
}

// WriteUnit writes u to the file at path. The data is written to a
// temporary file in the same directory, which replaces path only
// after it has been completely written and closed.
func WriteUnit(path string, u *Unit) error {
	return writeAtomic(path, u.Write)
}

// writeAtomic calls write with a temporary file and then renames
// the file to path. The temporary file is removed if any step fails.
func writeAtomic(path string, write func(*os.File) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("verb2cdf: creating output file: %v", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err = write(f); err != nil {
		return fmt.Errorf("verb2cdf: writing %s: %v", path, err)
	}
	if err = f.Chmod(0644); err != nil {
		return fmt.Errorf("verb2cdf: writing %s: %v", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("verb2cdf: closing %s: %v", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("verb2cdf: %v", err)
	}
	return nil
}

// LoadUnit reads a Unit from a netcdf file.
func LoadUnit(rw cdf.ReaderWriterAt) (*Unit, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("verb2cdf.LoadUnit: %v", err)
	}
	u := &Unit{
		dims:    f.Header.Dimensions(""),
		lengths: f.Header.Lengths(""),
		Data:    make(map[string]*Variable),
	}
	for _, a := range f.Header.Attributes("") {
		if s, ok := f.Header.GetAttribute("", a).(string); ok {
			u.AddAttribute(a, s)
		}
	}
	for _, name := range f.Header.Variables() {
		v := &Variable{Dims: f.Header.Dimensions(name)}
		v.Description, _ = f.Header.GetAttribute(name, "description").(string)
		v.Units, _ = f.Header.GetAttribute(name, "units").(string)
		v.Data = sparse.ZerosDense(f.Header.Lengths(name)...)
		r := f.Reader(name, nil, nil)
		buf := r.Zero(len(v.Data.Elements))
		if _, err = r.Read(buf); err != nil {
			return nil, fmt.Errorf("verb2cdf.LoadUnit: reading %s: %v", name, err)
		}
		switch b := buf.(type) {
		case []float32:
			for i, x := range b {
				v.Data.Elements[i] = float64(x)
			}
		case []float64:
			v.Double = true
			copy(v.Data.Elements, b)
		default:
			return nil, fmt.Errorf("verb2cdf.LoadUnit: variable %s has unsupported type %T", name, buf)
		}
		u.names = append(u.names, name)
		u.Data[name] = v
	}
	return u, nil
}

// OpenUnit reads the Unit stored in the netcdf file at path.
func OpenUnit(path string) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("verb2cdf: opening %s: %v", path, err)
	}
	defer f.Close()
	return LoadUnit(f)
}
