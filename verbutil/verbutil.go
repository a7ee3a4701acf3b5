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

package verbutil

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/verb2cdf"
	"gonum.org/v1/gonum/floats"
)

// Convert converts the VERB-3D output in dir. If startDate is the zero
// time, it is read from the run metadata.
func Convert(dir string, startDate time.Time, log logrus.FieldLogger) (*verb2cdf.Catalog, error) {
	c := &verb2cdf.Converter{
		Dir:       dir,
		StartDate: startDate,
		Log:       log,
	}
	return c.Convert()
}

// StartDate returns the simulation start date of the output in dir.
func StartDate(dir string, log logrus.FieldLogger) (time.Time, error) {
	return verb2cdf.ResolveStartDate(dir, log)
}

// Inspect writes a summary of the contents of the converted
// file at path to w.
func Inspect(w io.Writer, path string) error {
	u, err := verb2cdf.OpenUnit(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", path)
	dims, lengths := u.Dims()
	fmt.Fprintln(w, "dimensions:")
	for i, d := range dims {
		fmt.Fprintf(w, "\t%s = %d\n", d, lengths[i])
	}
	fmt.Fprintln(w, "variables:")
	for _, name := range u.Variables() {
		v := u.Data[name]
		typ := "float"
		if v.Double {
			typ = "double"
		}
		fmt.Fprintf(w, "\t%s %s(%s)", typ, name, strings.Join(v.Dims, ", "))
		if v.Units != "" {
			fmt.Fprintf(w, " [%s]", v.Units)
		}
		if len(v.Data.Elements) > 0 {
			fmt.Fprintf(w, " min=%g max=%g", floats.Min(v.Data.Elements), floats.Max(v.Data.Elements))
		}
		fmt.Fprintln(w)
		if v.Description != "" {
			fmt.Fprintf(w, "\t\t%s\n", v.Description)
		}
	}
	return nil
}
