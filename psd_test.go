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
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

func testPSD(g *Grid, steps int) *PSD {
	shape := append([]int{steps}, g.Shape()...)
	p := &PSD{Data: sparse.ZerosDense(shape...), Times: make([]float64, steps)}
	for i := range p.Data.Elements {
		p.Data.Elements[i] = float64(i + 1)
	}
	for i := range p.Times {
		p.Times[i] = 0.25 * float64(i)
	}
	return p
}

func TestPSDCheck(t *testing.T) {
	g := testGrid(t)
	if err := testPSD(g, 2).Check(g); err != nil {
		t.Fatal(err)
	}

	p := testPSD(g, 2)
	p.Times = p.Times[:1]
	if err := p.Check(g); err == nil {
		t.Error("expected an error for too few times")
	}

	p = &PSD{Data: sparse.ZerosDense(2, 2, 3, 3), Times: []float64{0, 1}}
	if err := p.Check(g); err == nil {
		t.Error("expected an error for a spatial shape mismatch")
	}

	p = &PSD{Data: sparse.ZerosDense(2, 12), Times: []float64{0, 1}}
	if err := p.Check(g); err == nil {
		t.Error("expected an error for a 2-D array")
	}
}

func TestPSDUnits(t *testing.T) {
	g := testGrid(t)
	p := testPSD(g, 2)
	n := len(g.L.Elements)

	flux, err := p.FluxUnit(1, g)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]float64, n)
	copy(want, p.Data.Elements[n:])
	floats.Scale(PSDUnitConversion, want)
	if !floats.EqualApprox(flux.Data["PSD"].Data.Elements, want, 1e-20) {
		t.Errorf("PSD: have %v, want %v", flux.Data["PSD"].Data.Elements, want)
	}
	for i, pc := range g.Pc.Elements {
		raw := p.Data.Elements[n+i]
		if have := flux.Data["Flux"].Data.Elements[i]; have != raw*(pc*pc) {
			t.Errorf("Flux[%d] = %g, want %g", i, have, raw*(pc*pc))
		}
	}
	if tm := flux.Data["time"].Data.Elements; len(tm) != 1 || tm[0] != 0.25 {
		t.Errorf("time: have %v, want [0.25]", tm)
	}

	lmk, err := p.LMKUnit(1)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(lmk.Data["PSD_2"].Data.Elements, flux.Data["PSD"].Data.Elements) {
		t.Error("PSD_2 should equal PSD")
	}
	if dims := lmk.Data["PSD_2"].Dims; len(dims) != 3 || dims[1] != "Mu" || dims[2] != "K" {
		t.Errorf("PSD_2 dimensions: have %v", dims)
	}

	// The source data must not be modified.
	if p.Data.Elements[n] != float64(n+1) {
		t.Error("FluxUnit modified the phase space density")
	}

	if _, err := p.FluxUnit(2, g); err == nil {
		t.Error("expected an error for an out of range time step")
	}
	if _, err := p.LMKUnit(-1); err == nil {
		t.Error("expected an error for an out of range time step")
	}
}

func TestPartition(t *testing.T) {
	g := testGrid(t)
	p := testPSD(g, 3)
	dir := t.TempDir()
	fluxFiles, lmkFiles, err := Partition(dir, p, g, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(fluxFiles) != 3 || len(lmkFiles) != 3 {
		t.Fatalf("have %d flux and %d lmk files, want 3 of each", len(fluxFiles), len(lmkFiles))
	}
	for i, f := range lmkFiles {
		if want := filepath.Join(dir, fmt.Sprintf("%s%d.nc", LMKGroup, i)); f != want {
			t.Errorf("file %d: have %s, want %s", i, f, want)
		}
		if !isFile(f) {
			t.Errorf("%s was not written", f)
		}
	}
}
