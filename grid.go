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
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/verb2cdf/science/invariant"
)

var gridDims = []string{"L", "E", "Alpha"}

// Grid holds the VERB computational grid and the adiabatic invariants
// derived from it.
type Grid struct {
	L     *sparse.DenseArray // L-shell
	E     *sparse.DenseArray // kinetic energy [MeV]
	Alpha *sparse.DenseArray // equatorial pitch angle [radians]
	Pc    *sparse.DenseArray // momentum times the speed of light [MeV]

	Mu *sparse.DenseArray // first adiabatic invariant [MeV/G]
	K  *sparse.DenseArray // second adiabatic invariant [G^0.5 Re]
}

// NewGrid checks the shapes of the given grid arrays and
// calculates Mu and K from them. alpha must be in radians.
func NewGrid(l, e, alpha, pc *sparse.DenseArray) (*Grid, error) {
	g := &Grid{L: l, E: e, Alpha: alpha, Pc: pc}
	if err := g.check(false); err != nil {
		return nil, err
	}
	var err error
	if g.Mu, err = invariant.MuArray(e, l, alpha); err != nil {
		return nil, fmt.Errorf("verb2cdf: %v", err)
	}
	if g.K, err = invariant.KArray(l, alpha); err != nil {
		return nil, fmt.Errorf("verb2cdf: %v", err)
	}
	return g, nil
}

// LoadGrid reads a VERB grid file, whose first four variables
// are L, energy, pitch angle in radians, and pc.
func LoadGrid(path string) (*Grid, error) {
	p, err := LoadPLT(path)
	if err != nil {
		return nil, err
	}
	if len(p.Variables) < 4 {
		return nil, fmt.Errorf("verb2cdf: grid file %s has %d variables but at least 4 are required",
			path, len(p.Variables))
	}
	vars := make([]*sparse.DenseArray, 4)
	for i := range vars {
		if vars[i], err = p.Variable(i, true); err != nil {
			return nil, err
		}
	}
	return NewGrid(vars[0], vars[1], vars[2], vars[3])
}

// Shape returns the grid's L, E, and Alpha lengths.
func (g *Grid) Shape() []int { return g.L.Shape }

// Check verifies that all grid arrays are three-dimensional and have
// the same shape.
func (g *Grid) Check() error { return g.check(true) }

func (g *Grid) check(derived bool) error {
	arrays := []*sparse.DenseArray{g.L, g.E, g.Alpha, g.Pc}
	names := []string{"L", "E", "Alpha", "pc"}
	if derived {
		arrays = append(arrays, g.Mu, g.K)
		names = append(names, "Mu", "K")
	}
	for i, a := range arrays {
		if a == nil {
			return fmt.Errorf("verb2cdf: grid variable %s is missing", names[i])
		}
		if len(a.Shape) != 3 {
			return fmt.Errorf("verb2cdf: grid variable %s has shape %v but must be 3-dimensional",
				names[i], a.Shape)
		}
		if !equalShape(a.Shape, g.L.Shape) {
			return fmt.Errorf("verb2cdf: grid variable %s has shape %v but L has shape %v",
				names[i], a.Shape, g.L.Shape)
		}
	}
	return nil
}

// AlphaDegrees returns the pitch angle grid in degrees.
func (g *Grid) AlphaDegrees() *sparse.DenseArray {
	out := sparse.ZerosDense(g.Alpha.Shape...)
	for i, v := range g.Alpha.Elements {
		out.Elements[i] = v * 180 / math.Pi
	}
	return out
}

// Unit returns the output file contents for the grid.
func (g *Grid) Unit() (*Unit, error) {
	if err := g.Check(); err != nil {
		return nil, err
	}
	u := NewUnit(gridDims, g.Shape())
	u.AddAttribute("comment", ModelName+" computational grid")
	for _, v := range []struct {
		name, description, units string
		data                     *sparse.DenseArray
	}{
		{"L", "L-shell", "", g.L},
		{"E", "Kinetic energy", "MeV", g.E},
		{"Alpha", "Equatorial pitch angle", "deg", g.AlphaDegrees()},
		{"pc", "Momentum times the speed of light", "MeV", g.Pc},
		{"Mu", "First adiabatic invariant", "MeV/G", g.Mu},
		{"K", "Second adiabatic invariant", "G^0.5 Re", g.K},
	} {
		if err := u.AddVariable(v.name, gridDims, v.description, v.units, v.data); err != nil {
			return nil, err
		}
	}
	return u, nil
}
