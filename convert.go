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
	"time"

	"github.com/sirupsen/logrus"
)

// Converter converts the VERB output in one directory.
type Converter struct {
	// Dir is the directory holding the model output. Converted files
	// are written to the same directory.
	Dir string

	// StartDate is the simulation start date. If it is the zero time,
	// it is determined by Resolvers.
	StartDate time.Time

	// Resolvers are the sources of the simulation start date, in order
	// of increasing priority. If empty, DefaultResolvers are used.
	Resolvers []StartDateResolver

	// Log receives progress messages. If nil, the logrus standard
	// logger is used.
	Log logrus.FieldLogger
}

// Convert converts the model output in dir using the default settings.
func Convert(dir string, startDate time.Time) (*Catalog, error) {
	c := &Converter{Dir: dir, StartDate: startDate}
	return c.Convert()
}

// Convert converts all of the model output in c.Dir and writes the catalog.
// If any required input is missing, the returned error wraps
// ErrMissingInput and no files are written. All inputs are read and
// checked before any output is written.
func (c *Converter) Convert() (*Catalog, error) {
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("dir", c.Dir)

	for _, path := range RequiredInputs(c.Dir) {
		if !isFile(path) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
	}

	startDate := c.StartDate
	if startDate.IsZero() {
		var err error
		startDate, err = ResolveStartDate(c.Dir, log, c.Resolvers...)
		if err != nil {
			return nil, err
		}
	}

	grid, err := LoadGrid(filepath.Join(c.Dir, GridFile))
	if err != nil {
		return nil, err
	}
	psd, err := LoadPSD(filepath.Join(c.Dir, PSDFile))
	if err != nil {
		return nil, err
	}
	if err = psd.Check(grid); err != nil {
		return nil, err
	}
	out1d, err := LoadOut1D(filepath.Join(c.Dir, Out1DFile))
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"grid_shape":     grid.Shape(),
		"time_steps":     psd.Len(),
		"out1d_rows":     out1d.Len(),
		"out1d_variable": len(out1d.Names),
	}).Info("read model output")

	gridUnit, err := grid.Unit()
	if err != nil {
		return nil, err
	}
	out1dUnit, err := out1d.Unit()
	if err != nil {
		return nil, err
	}

	gridFile := filepath.Join(c.Dir, GridGroup+".nc")
	if err = WriteUnit(gridFile, gridUnit); err != nil {
		return nil, err
	}
	log.WithField("file", gridFile).Info("wrote grid")

	fluxFiles, lmkFiles, err := Partition(c.Dir, psd, grid, log)
	if err != nil {
		return nil, err
	}
	log.WithField("files", len(fluxFiles)+len(lmkFiles)).Info("wrote phase space density")

	out1dFile := filepath.Join(c.Dir, Out1DGroup+".nc")
	if err = WriteUnit(out1dFile, out1dUnit); err != nil {
		return nil, err
	}
	log.WithField("file", out1dFile).Info("wrote 1-D output")

	cat := NewCatalog(ModelName, startDate)
	if err = cat.AddPerStep(FluxGroup, fluxFiles, psd.Times); err != nil {
		return nil, err
	}
	if err = cat.AddPerStep(LMKGroup, lmkFiles, psd.Times); err != nil {
		return nil, err
	}
	if err = cat.AddWholeRun(GridGroup, gridFile, psd.Times, false); err != nil {
		return nil, err
	}
	if err = cat.AddWholeRun(Out1DGroup, out1dFile, psd.Times, true); err != nil {
		return nil, err
	}
	listFile, timesFile, err := cat.Write(c.Dir)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"list": listFile, "times": timesFile}).Info("wrote catalog")
	return cat, nil
}
