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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ctessum/sparse"
)

// out1dHeaderLines is the number of lines at the top of an out1d file
// that hold the title and the variable names rather than data.
const out1dHeaderLines = 2

// Out1D holds one-dimensional time series output.
type Out1D struct {
	// Names holds the variable names in column order.
	Names []string

	// Columns holds one 1-D array per variable.
	Columns []*sparse.DenseArray
}

// LoadOut1D reads the out1d file at path.
func LoadOut1D(path string) (*Out1D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("verb2cdf: opening out1d file: %v", err)
	}
	defer f.Close()
	o, err := ReadOut1D(f)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	return o, nil
}

// ReadOut1D parses an out1d file. The variable names are the quoted
// names on the line beginning with "Variables"; the data is a
// whitespace-delimited table beginning on the third line, with one
// column per variable.
func ReadOut1D(r io.Reader) (*Out1D, error) {
	var names []string
	var rows [][]float64
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if names == nil && strings.HasPrefix(strings.ToUpper(line), "VARIABLES") {
			names = variableNames(line)
		}
		if lineNo <= out1dHeaderLines || line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := parseFloat(f)
			if err != nil {
				return nil, fmt.Errorf("verb2cdf: out1d line %d: %v", lineNo, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("verb2cdf: reading out1d file: %v", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("verb2cdf: out1d file has no Variables line")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("verb2cdf: out1d file has no data")
	}
	return newOut1D(names, rows)
}

// newOut1D zips the rows of a table into one column per name.
func newOut1D(names []string, rows [][]float64) (*Out1D, error) {
	seen := make(map[string]bool)
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("verb2cdf: out1d variable name is empty")
		}
		if seen[n] {
			return nil, fmt.Errorf("verb2cdf: out1d variable %s appears more than once", n)
		}
		seen[n] = true
	}
	o := &Out1D{Names: names, Columns: make([]*sparse.DenseArray, len(names))}
	for i := range o.Columns {
		o.Columns[i] = sparse.ZerosDense(len(rows))
	}
	for j, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("verb2cdf: out1d row %d has %d values but there are %d variables",
				j, len(row), len(names))
		}
		for i, v := range row {
			o.Columns[i].Elements[j] = v
		}
	}
	return o, nil
}

// Len returns the number of rows.
func (o *Out1D) Len() int {
	if len(o.Columns) == 0 {
		return 0
	}
	return len(o.Columns[0].Elements)
}

// Unit returns the output file contents for o, with each variable
// stored as 64-bit floats along the time dimension.
func (o *Out1D) Unit() (*Unit, error) {
	if o.Len() == 0 {
		return nil, fmt.Errorf("verb2cdf: out1d has no data")
	}
	dims := []string{"time"}
	u := NewUnit(dims, []int{o.Len()})
	u.AddAttribute("comment", ModelName+" one-dimensional output")
	for i, name := range o.Names {
		if err := u.AddDoubleVariable(name, dims, "", "", o.Columns[i]); err != nil {
			return nil, err
		}
	}
	return u, nil
}
