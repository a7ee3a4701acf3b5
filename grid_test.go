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
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/verb2cdf/science/invariant"
)

// testGrid returns a 2x3x2 grid.
func testGrid(t *testing.T) *Grid {
	t.Helper()
	l, e, a, pc := sparse.ZerosDense(2, 3, 2), sparse.ZerosDense(2, 3, 2), sparse.ZerosDense(2, 3, 2), sparse.ZerosDense(2, 3, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 2; k++ {
				l.Set(3+float64(i), i, j, k)
				e.Set(0.1*float64(j+1), i, j, k)
				a.Set(math.Pi/4*float64(k+1), i, j, k)
				pc.Set(invariant.Pc(0.1*float64(j+1)), i, j, k)
			}
		}
	}
	g, err := NewGrid(l, e, a, pc)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGrid(t *testing.T) {
	g := testGrid(t)
	if err := g.Check(); err != nil {
		t.Fatal(err)
	}
	for i := range g.L.Elements {
		l, e, a := g.L.Elements[i], g.E.Elements[i], g.Alpha.Elements[i]
		if have, want := g.Mu.Elements[i], invariant.Mu(e, l, a); have != want {
			t.Errorf("Mu[%d] = %g, want %g", i, have, want)
		}
		if have, want := g.K.Elements[i], invariant.K(l, a); have != want {
			t.Errorf("K[%d] = %g, want %g", i, have, want)
		}
	}
	// Equatorially mirroring particles have K = 0.
	if k := g.K.Get(0, 0, 1); k != 0 {
		t.Errorf("K at 90 degrees = %g, want 0", k)
	}

	_, err := NewGrid(g.L, g.E, sparse.ZerosDense(2, 3), g.Pc)
	if err == nil {
		t.Error("expected an error for mismatched shapes")
	}
	_, err = NewGrid(sparse.ZerosDense(12), sparse.ZerosDense(12), sparse.ZerosDense(12), sparse.ZerosDense(12))
	if err == nil {
		t.Error("expected an error for a 1-D grid")
	}
}

func TestGridUnit(t *testing.T) {
	g := testGrid(t)
	u, err := g.Unit()
	if err != nil {
		t.Fatal(err)
	}
	dims, lengths := u.Dims()
	if len(dims) != 3 || dims[0] != "L" || dims[1] != "E" || dims[2] != "Alpha" || !equalShape(lengths, []int{2, 3, 2}) {
		t.Errorf("dimensions: have %v %v", dims, lengths)
	}
	alpha := u.Data["Alpha"]
	if alpha.Units != "deg" {
		t.Errorf("Alpha units: have %q", alpha.Units)
	}
	for i, want := range []float64{45, 90} {
		if have := alpha.Data.Get(0, 0, i); math.Abs(have-want) > 1e-12 {
			t.Errorf("Alpha[0,0,%d] = %g, want %g", i, have, want)
		}
	}
	for _, name := range u.Variables() {
		if u.Data[name].Double {
			t.Errorf("%s should be stored as 32-bit floats", name)
		}
	}
}
