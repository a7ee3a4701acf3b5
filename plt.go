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
	"regexp"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
)

// PLT holds the contents of a Tecplot ASCII data file written in
// POINT format, which is how VERB-3D writes its grid and
// phase space density output.
type PLT struct {
	Title     string
	Variables []string
	Zones     []*Zone
}

// Zone is one ZONE record of a PLT file.
type Zone struct {
	// Title is the value of the zone's T attribute. For time-dependent
	// output it holds the simulation time in days.
	Title string

	// Shape holds the I, J, and K lengths of the zone.
	Shape []int

	// Data holds one array per file variable, each with shape Shape.
	Data []*sparse.DenseArray

	n   int       // number of values read so far
	buf []float64 // values in file order
}

var (
	quotedRx  = regexp.MustCompile(`"([^"]*)"`)
	zoneArgRx = regexp.MustCompile(`(?i)([A-Z]+)\s*=\s*("[^"]*"|[^,\s]+)`)
)

// LoadPLT reads the PLT file at path.
func LoadPLT(path string) (*PLT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("verb2cdf: opening plt file: %v", err)
	}
	defer f.Close()
	p, err := ReadPLT(f)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	return p, nil
}

// ReadPLT parses a PLT file from r.
func ReadPLT(r io.Reader) (*PLT, error) {
	p := new(PLT)
	var z *Zone
	inVariables := false
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "TITLE"):
			if m := quotedRx.FindStringSubmatch(line); m != nil {
				p.Title = m[1]
			}
			inVariables = false
		case strings.HasPrefix(upper, "VARIABLES"):
			p.Variables = append(p.Variables, variableNames(line)...)
			inVariables = true
		case strings.HasPrefix(line, `"`) && inVariables:
			// Variable lists may continue on following lines.
			p.Variables = append(p.Variables, variableNames("="+line)...)
		case strings.HasPrefix(upper, "ZONE"):
			inVariables = false
			if err := p.finishZone(z); err != nil {
				return nil, err
			}
			var err error
			if z, err = p.newZone(line); err != nil {
				return nil, fmt.Errorf("verb2cdf: plt line %d: %v", lineNo, err)
			}
		case isNumeric(line), strings.HasPrefix(upper, "NAN"), strings.HasPrefix(upper, "INF"):
			inVariables = false
			if z == nil {
				return nil, fmt.Errorf("verb2cdf: plt line %d: data before first ZONE record", lineNo)
			}
			for _, tok := range strings.Fields(strings.Replace(line, ",", " ", -1)) {
				v, err := parseFloat(tok)
				if err != nil {
					return nil, fmt.Errorf("verb2cdf: plt line %d: %v", lineNo, err)
				}
				if z.n == len(z.buf) {
					return nil, fmt.Errorf("verb2cdf: plt line %d: zone %q has more than %d values",
						lineNo, z.Title, len(z.buf))
				}
				z.buf[z.n] = v
				z.n++
			}
		default:
			return nil, fmt.Errorf("verb2cdf: plt line %d: unrecognized record %q", lineNo, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("verb2cdf: reading plt file: %v", err)
	}
	if err := p.finishZone(z); err != nil {
		return nil, err
	}
	if len(p.Zones) == 0 {
		return nil, fmt.Errorf("verb2cdf: plt file has no zones")
	}
	return p, nil
}

func variableNames(line string) []string {
	i := strings.Index(line, "=")
	if i < 0 {
		return nil
	}
	line = line[i+1:]
	var names []string
	if m := quotedRx.FindAllStringSubmatch(line, -1); m != nil {
		for _, mm := range m {
			names = append(names, mm[1])
		}
		return names
	}
	return strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}

func (p *PLT) newZone(line string) (*Zone, error) {
	if len(p.Variables) == 0 {
		return nil, fmt.Errorf("ZONE record before VARIABLES record")
	}
	z := &Zone{Shape: []int{1, 1, 1}}
	for _, m := range zoneArgRx.FindAllStringSubmatch(line[len("ZONE"):], -1) {
		key, val := strings.ToUpper(m[1]), strings.Trim(m[2], `"`)
		switch key {
		case "T":
			z.Title = strings.TrimSpace(val)
		case "I", "J", "K":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid zone length %s=%s", key, val)
			}
			z.Shape[int(key[0]-'I')] = n
		case "F", "DATAPACKING":
			if strings.ToUpper(val) != "POINT" {
				return nil, fmt.Errorf("unsupported data packing %s", val)
			}
		}
	}
	z.buf = make([]float64, z.Shape[0]*z.Shape[1]*z.Shape[2]*len(p.Variables))
	return z, nil
}

// finishZone checks that z is complete and reorders its values
// into one array per variable, indexed [i][j][k].
func (p *PLT) finishZone(z *Zone) error {
	if z == nil {
		return nil
	}
	if z.n != len(z.buf) {
		return fmt.Errorf("verb2cdf: plt zone %q has %d values but %d were expected",
			z.Title, z.n, len(z.buf))
	}
	ni, nj, nk := z.Shape[0], z.Shape[1], z.Shape[2]
	nv := len(p.Variables)
	z.Data = make([]*sparse.DenseArray, nv)
	for v := range z.Data {
		z.Data[v] = sparse.ZerosDense(ni, nj, nk)
	}
	// Tecplot point order varies I fastest and K slowest.
	pt := 0
	for k := 0; k < nk; k++ {
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				for v := 0; v < nv; v++ {
					z.Data[v].Set(z.buf[pt*nv+v], i, j, k)
				}
				pt++
			}
		}
	}
	z.buf = nil
	p.Zones = append(p.Zones, z)
	return nil
}

// Variable returns the data for variable v in the first zone,
// with degenerate dimensions removed if squeeze is true.
func (p *PLT) Variable(v int, squeeze bool) (*sparse.DenseArray, error) {
	if v < 0 || v >= len(p.Variables) {
		return nil, fmt.Errorf("verb2cdf: plt file has %d variables; variable %d requested", len(p.Variables), v)
	}
	d := p.Zones[0].Data[v].Copy()
	if squeeze {
		return Squeeze(d), nil
	}
	return d, nil
}

// Series stacks variable v of every zone into one array with the
// zone as the leading dimension, and returns it along with
// the zone titles.
func (p *PLT) Series(v int) (*sparse.DenseArray, []string, error) {
	if v < 0 || v >= len(p.Variables) {
		return nil, nil, fmt.Errorf("verb2cdf: plt file has %d variables; variable %d requested", len(p.Variables), v)
	}
	shape := p.Zones[0].Shape
	out := sparse.ZerosDense(len(p.Zones), shape[0], shape[1], shape[2])
	titles := make([]string, len(p.Zones))
	n := shape[0] * shape[1] * shape[2]
	for t, z := range p.Zones {
		if !equalShape(z.Shape, shape) {
			return nil, nil, fmt.Errorf("verb2cdf: plt zone %d has shape %v but zone 0 has shape %v",
				t, z.Shape, shape)
		}
		copy(out.Elements[t*n:(t+1)*n], z.Data[v].Elements)
		titles[t] = z.Title
	}
	return out, titles, nil
}

// Squeeze returns a with all length-one dimensions removed.
// The elements are shared with a.
func Squeeze(a *sparse.DenseArray) *sparse.DenseArray {
	var shape []int
	for _, n := range a.Shape {
		if n != 1 {
			shape = append(shape, n)
		}
	}
	if len(shape) == 0 {
		shape = []int{1}
	}
	out := sparse.ZerosDense(shape...)
	out.Elements = a.Elements
	return out
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isNumeric(line string) bool {
	switch line[0] {
	case '+', '-', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return false
}

// parseFloat parses s, accepting Fortran-style D exponents.
func parseFloat(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
