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
	"regexp"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var (
	fluxDims = []string{"L", "E", "Alpha"}
	lmkDims  = []string{"L", "Mu", "K"}

	numberRx = regexp.MustCompile(`[-+]?(\d+\.?\d*|\.\d+)([eEdD][-+]?\d+)?`)
)

// PSD holds a phase space density time series.
type PSD struct {
	// Data is indexed by time, L, E, and Alpha.
	Data *sparse.DenseArray

	// Times holds the simulation time of each step in days,
	// rounded to 32-bit precision.
	Times []float64
}

// LoadPSD reads a VERB phase space density file, where each zone
// holds one time step and the zone title is the time in days.
func LoadPSD(path string) (*PSD, error) {
	p, err := LoadPLT(path)
	if err != nil {
		return nil, err
	}
	data, titles, err := p.Series(0)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	psd := &PSD{Data: data, Times: make([]float64, len(titles))}
	for i, title := range titles {
		v, err := zoneTime(title)
		if err != nil {
			return nil, fmt.Errorf("verb2cdf: %s zone %d: %v", path, i, err)
		}
		// Output files store times as 32-bit floats.
		psd.Times[i] = float64(float32(v))
	}
	return psd, nil
}

// zoneTime extracts the time from a zone title.
func zoneTime(title string) (float64, error) {
	s := numberRx.FindString(title)
	if s == "" {
		return 0, fmt.Errorf("zone title %q does not contain a time", title)
	}
	return parseFloat(s)
}

// Len returns the number of time steps.
func (p *PSD) Len() int { return len(p.Times) }

// Check verifies that there is one time per step and that the spatial
// shape of p matches g.
func (p *PSD) Check(g *Grid) error {
	if len(p.Data.Shape) != 4 {
		return fmt.Errorf("verb2cdf: phase space density has shape %v but must be 4-dimensional", p.Data.Shape)
	}
	if p.Len() == 0 {
		return fmt.Errorf("verb2cdf: phase space density has no time steps")
	}
	if p.Len() != p.Data.Shape[0] {
		return fmt.Errorf("verb2cdf: phase space density has %d time steps but %d times",
			p.Data.Shape[0], p.Len())
	}
	if !equalShape(p.Data.Shape[1:], g.Shape()) {
		return fmt.Errorf("verb2cdf: phase space density has spatial shape %v but the grid has shape %v",
			p.Data.Shape[1:], g.Shape())
	}
	return nil
}

// step returns a copy of the raw phase space density at time step t.
func (p *PSD) step(t int) *sparse.DenseArray {
	shape := p.Data.Shape[1:]
	n := size(shape)
	out := sparse.ZerosDense(shape...)
	copy(out.Elements, p.Data.Elements[t*n:(t+1)*n])
	return out
}

// scaled returns the phase space density at time step t in (c/MeV/cm)^3.
func (p *PSD) scaled(t int) *sparse.DenseArray {
	out := p.step(t)
	floats.Scale(PSDUnitConversion, out.Elements)
	return out
}

func (p *PSD) timeVar(t int) *sparse.DenseArray {
	out := sparse.ZerosDense(1)
	out.Elements[0] = p.Times[t]
	return out
}

// FluxUnit returns the output file contents for phase space density
// and differential flux at time step t.
// Flux is the raw phase space density multiplied by pc².
func (p *PSD) FluxUnit(t int, g *Grid) (*Unit, error) {
	if err := p.checkStep(t); err != nil {
		return nil, err
	}
	shape := p.Data.Shape[1:]
	pc2 := make([]float64, len(g.Pc.Elements))
	copy(pc2, g.Pc.Elements)
	floats.Mul(pc2, g.Pc.Elements)
	flux := p.step(t)
	floats.Mul(flux.Elements, pc2)

	u := NewUnit(append([]string{"time"}, fluxDims...), append([]int{1}, shape...))
	u.AddAttribute("comment", fmt.Sprintf("%s phase space density and flux, time step %d", ModelName, t))
	if err := u.AddVariable("PSD", fluxDims, "Phase space density", "(c/MeV/cm)^3", p.scaled(t)); err != nil {
		return nil, err
	}
	if err := u.AddVariable("Flux", fluxDims, "Differential flux", "", flux); err != nil {
		return nil, err
	}
	if err := u.AddVariable("time", []string{"time"}, "Time since the start of the simulation", "days", p.timeVar(t)); err != nil {
		return nil, err
	}
	return u, nil
}

// LMKUnit returns the output file contents for phase space density at
// time step t on the L, Mu, K grid. The values are the same as in
// FluxUnit; only the dimension labels differ.
func (p *PSD) LMKUnit(t int) (*Unit, error) {
	if err := p.checkStep(t); err != nil {
		return nil, err
	}
	shape := p.Data.Shape[1:]
	u := NewUnit(append([]string{"time"}, lmkDims...), append([]int{1}, shape...))
	u.AddAttribute("comment", fmt.Sprintf("%s phase space density on the L, Mu, K grid, time step %d", ModelName, t))
	if err := u.AddVariable("PSD_2", lmkDims, "Phase space density", "(c/MeV/cm)^3", p.scaled(t)); err != nil {
		return nil, err
	}
	if err := u.AddVariable("time", []string{"time"}, "Time since the start of the simulation", "days", p.timeVar(t)); err != nil {
		return nil, err
	}
	return u, nil
}

func (p *PSD) checkStep(t int) error {
	if t < 0 || t >= p.Len() {
		return fmt.Errorf("verb2cdf: time step %d out of range [0, %d)", t, p.Len())
	}
	return nil
}

// Partition writes a flux file and an L, Mu, K file into dir for every
// time step in p, and returns the paths of the files in the
// order they were written.
func Partition(dir string, p *PSD, g *Grid, log logrus.FieldLogger) (fluxFiles, lmkFiles []string, err error) {
	if err = p.Check(g); err != nil {
		return nil, nil, err
	}
	for t := 0; t < p.Len(); t++ {
		flux, err := p.FluxUnit(t, g)
		if err != nil {
			return fluxFiles, lmkFiles, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s%d.nc", FluxGroup, t))
		if err = WriteUnit(path, flux); err != nil {
			return fluxFiles, lmkFiles, err
		}
		fluxFiles = append(fluxFiles, path)

		lmk, err := p.LMKUnit(t)
		if err != nil {
			return fluxFiles, lmkFiles, err
		}
		path = filepath.Join(dir, fmt.Sprintf("%s%d.nc", LMKGroup, t))
		if err = WriteUnit(path, lmk); err != nil {
			return fluxFiles, lmkFiles, err
		}
		lmkFiles = append(lmkFiles, path)

		log.WithFields(logrus.Fields{"step": t, "time_days": p.Times[t]}).Debug("wrote phase space density")
	}
	return fluxFiles, lmkFiles, nil
}
