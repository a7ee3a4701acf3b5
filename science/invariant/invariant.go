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

// Package invariant converts between the native VERB grid coordinates
// (L-shell, energy, equatorial pitch angle) and the adiabatic invariants
// μ and K in a dipole magnetic field.
package invariant

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// physical constants
const (
	// Mc2 is the electron rest energy [MeV].
	Mc2 = 0.510998950

	// B0 is the equatorial dipole field strength at the Earth's surface [G].
	B0 = 0.311653

	// Schulz & Lanzerotti (1974) coefficients for the
	// approximation of the bounce integral Y(y).
	t0 = 1.3802
	t1 = 0.7405
)

// Pc returns the relativistic momentum times the speed of light [MeV]
// for a particle with kinetic energy e [MeV].
func Pc(e float64) float64 {
	return math.Sqrt(e * (e + 2*Mc2))
}

// Bdip returns the equatorial dipole field strength [G] at L-shell l.
func Bdip(l float64) float64 {
	return B0 / (l * l * l)
}

// Mu returns the first adiabatic invariant [MeV/G] of a particle with
// kinetic energy e [MeV] on L-shell l with equatorial pitch angle alpha
// [radians].
func Mu(e, l, alpha float64) float64 {
	pc := Pc(e)
	s := math.Sin(alpha)
	return pc * pc * s * s / (2 * Mc2 * Bdip(l))
}

// K returns the modified second adiabatic invariant [G^0.5 Re] of a particle
// on L-shell l with equatorial pitch angle alpha [radians]. K is zero for
// equatorially mirroring particles and diverges as alpha approaches zero.
func K(l, alpha float64) float64 {
	y := math.Abs(math.Sin(alpha))
	return bounceY(y) * math.Sqrt(B0/l) / y
}

// bounceY approximates the integral Y(y) = I/(L Re) where y is the sine of
// the equatorial pitch angle.
func bounceY(y float64) float64 {
	if y <= 0 {
		return 2 * t0
	}
	return 2*(1-y)*t0 + (t0-t1)*(y*math.Log(y)+2*y-2*math.Sqrt(y))
}

// MuArray applies Mu elementwise to energy, lShell, and alpha, which must
// all have the same shape.
func MuArray(energy, lShell, alpha *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape(energy, lShell, alpha); err != nil {
		return nil, fmt.Errorf("invariant: calculating Mu: %v", err)
	}
	out := sparse.ZerosDense(energy.Shape...)
	for i, e := range energy.Elements {
		out.Elements[i] = Mu(e, lShell.Elements[i], alpha.Elements[i])
	}
	return out, nil
}

// KArray applies K elementwise to lShell and alpha, which must have the
// same shape.
func KArray(lShell, alpha *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape(lShell, alpha); err != nil {
		return nil, fmt.Errorf("invariant: calculating K: %v", err)
	}
	out := sparse.ZerosDense(lShell.Shape...)
	for i, l := range lShell.Elements {
		out.Elements[i] = K(l, alpha.Elements[i])
	}
	return out, nil
}

func sameShape(arrays ...*sparse.DenseArray) error {
	for _, a := range arrays[1:] {
		if len(a.Shape) != len(arrays[0].Shape) || len(a.Elements) != len(arrays[0].Elements) {
			return fmt.Errorf("shape %v does not match %v", a.Shape, arrays[0].Shape)
		}
		for i, n := range a.Shape {
			if n != arrays[0].Shape[i] {
				return fmt.Errorf("shape %v does not match %v", a.Shape, arrays[0].Shape)
			}
		}
	}
	return nil
}
