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

// Command verb2cdf converts VERB-3D radiation belt model output to NetCDF.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/verb2cdf/verbutil"
)

func main() {
	if err := verbutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
