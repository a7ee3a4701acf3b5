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

// Package verb2cdf converts output from the VERB-3D radiation belt model
// into NetCDF files, along with file and time lists that allow the
// Kamodo model reader framework to find the file that covers any
// given time.
//
// A model output directory is expected to contain three files:
// perp_grid.plt, which holds the L, energy, pitch angle, and momentum grid;
// OutPSD.dat, which holds phase space density for each time step;
// and out1d.dat, which holds one-dimensional diagnostic time series.
// They are converted into perp_grid.nc, a pair of files
// OutPSD_Flux{t}.nc and OutPSD_lmk{t}.nc for each time step t, and
// out1d.nc, and are listed in VERB-3D_list.txt and VERB-3D_times.txt.
package verb2cdf

import (
	"errors"
	"path/filepath"
)

// Version gives the version number.
const Version = "0.1.0"

// ModelName is the model identifier used in catalog file names
// and headers.
const ModelName = "VERB-3D"

// Input file names.
const (
	GridFile  = "perp_grid.plt"
	PSDFile   = "OutPSD.dat"
	Out1DFile = "out1d.dat"
)

// Variable group names, which are also the output file name prefixes.
const (
	FluxGroup  = "OutPSD_Flux"
	LMKGroup   = "OutPSD_lmk"
	GridGroup  = "perp_grid"
	Out1DGroup = "out1d"
)

// PSDUnitConversion converts phase space density from the units
// VERB writes to (c/MeV/cm)^3.
const PSDUnitConversion = 1 / 3e7

// ErrMissingInput is returned when a required input file does not exist.
var ErrMissingInput = errors.New("verb2cdf: required input file is missing")

// RequiredInputs returns the paths of the files in dir that
// a conversion requires.
func RequiredInputs(dir string) []string {
	return []string{
		filepath.Join(dir, GridFile),
		filepath.Join(dir, PSDFile),
		filepath.Join(dir, Out1DFile),
	}
}
