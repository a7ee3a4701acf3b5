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
	"strings"
	"testing"
)

func TestReadOut1D(t *testing.T) {
	const f = ` TITLE = "1D"
 Variables = "time", "Kp"
  0.0  1.0

  0.5  2.5D+00
`
	o, err := ReadOut1D(strings.NewReader(f))
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Names) != 2 || o.Names[0] != "time" || o.Names[1] != "Kp" {
		t.Fatalf("names: have %v", o.Names)
	}
	if o.Len() != 2 {
		t.Fatalf("have %d rows, want 2", o.Len())
	}
	want := [][]float64{{0, 0.5}, {1, 2.5}}
	for i, col := range want {
		for j, v := range col {
			if have := o.Columns[i].Elements[j]; have != v {
				t.Errorf("%s[%d] = %g, want %g", o.Names[i], j, have, v)
			}
		}
	}

	u, err := o.Unit()
	if err != nil {
		t.Fatal(err)
	}
	dims, lengths := u.Dims()
	if len(dims) != 1 || dims[0] != "time" || lengths[0] != 2 {
		t.Errorf("dimensions: have %v %v", dims, lengths)
	}
	for _, name := range o.Names {
		if !u.Data[name].Double {
			t.Errorf("%s should be stored as 64-bit floats", name)
		}
	}
}

func TestReadOut1DHeaderCase(t *testing.T) {
	for _, header := range []string{"Variables", "VARIABLES", "variables"} {
		f := "TITLE = \"1D\"\n" + header + " = \"time\", \"Kp\"\n0.0 1.0\n"
		o, err := ReadOut1D(strings.NewReader(f))
		if err != nil {
			t.Fatalf("%s: %v", header, err)
		}
		if len(o.Names) != 2 || o.Names[1] != "Kp" {
			t.Errorf("%s: names %v", header, o.Names)
		}
	}
}

func TestReadOut1DErrors(t *testing.T) {
	for _, test := range []struct {
		name, contents string
	}{
		{"no variables", "TITLE = \"1D\"\n\n1 2\n"},
		{"no data", "TITLE = \"1D\"\nVariables = \"a\", \"b\"\n"},
		{"ragged row", "TITLE = \"1D\"\nVariables = \"a\", \"b\"\n1 2\n3\n"},
		{"duplicate name", "TITLE = \"1D\"\nVariables = \"a\", \"a\"\n1 2\n"},
		{"empty name", "TITLE = \"1D\"\nVariables = \"a\", \"\"\n1 2\n"},
		{"bad number", "TITLE = \"1D\"\nVariables = \"a\"\none\n"},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ReadOut1D(strings.NewReader(test.contents)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadOut1D(t *testing.T) {
	dir := testRun(t)
	o, err := LoadOut1D(dir + "/" + Out1DFile)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 4 {
		t.Errorf("have %d rows, want 4", o.Len())
	}
	if len(o.Names) != 3 || o.Names[2] != "Dst" {
		t.Errorf("names: have %v", o.Names)
	}
	if v := o.Columns[1].Elements[2]; v != 2.5 {
		t.Errorf("Kp[2] = %g, want 2.5", v)
	}
}
