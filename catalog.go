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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// HoursPerDay converts simulation time in days to catalog time in hours.
const HoursPerDay = 24

// Coverage holds the times, in hours since the catalog start date,
// covered by the files in a group.
type Coverage struct {
	Start, End, All []float64
}

// Group is a set of output files that share a time indexing scheme.
type Group struct {
	Name  string
	Files []string
	Times Coverage

	// PerStep is true if each file holds a single time step,
	// and false if one file covers the whole run.
	PerStep bool
}

// Catalog lists which output file covers which time.
type Catalog struct {
	Model     string
	StartDate time.Time
	Groups    []*Group
}

// NewCatalog returns an empty catalog.
func NewCatalog(model string, startDate time.Time) *Catalog {
	return &Catalog{Model: model, StartDate: startDate}
}

// Group returns the group with the given name, or nil if there is none.
func (c *Catalog) Group(name string) *Group {
	for _, g := range c.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func daysToHours(days []float64) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = float64(float32(d) * HoursPerDay)
	}
	return out
}

// AddPerStep adds a group where files[i] holds the time step at
// days[i] days since the start of the simulation.
func (c *Catalog) AddPerStep(name string, files []string, days []float64) error {
	if len(files) != len(days) {
		return fmt.Errorf("verb2cdf: catalog group %s has %d files but %d times", name, len(files), len(days))
	}
	h := daysToHours(days)
	return c.add(&Group{
		Name:    name,
		Files:   files,
		Times:   Coverage{Start: h, End: h, All: h},
		PerStep: true,
	})
}

// AddWholeRun adds a group with a single file covering the simulation
// times in days. The file starts at the first time and ends at the last.
// If allTimes is false, only the first time is listed as a time the
// file contains.
func (c *Catalog) AddWholeRun(name, file string, days []float64, allTimes bool) error {
	if len(days) == 0 {
		return fmt.Errorf("verb2cdf: catalog group %s has no times", name)
	}
	h := daysToHours(days)
	all := h
	if !allTimes {
		all = h[:1]
	}
	return c.add(&Group{
		Name:  name,
		Files: []string{file},
		Times: Coverage{Start: h[:1], End: h[len(h)-1:], All: all},
	})
}

func (c *Catalog) add(g *Group) error {
	if c.Group(g.Name) != nil {
		return fmt.Errorf("verb2cdf: catalog group %s already exists", g.Name)
	}
	c.Groups = append(c.Groups, g)
	return c.Check()
}

// Check verifies that the time lists of each group are consistent with
// its files and that no file is listed twice.
func (c *Catalog) Check() error {
	seen := make(map[string]string)
	for _, g := range c.Groups {
		for _, f := range g.Files {
			if other, ok := seen[f]; ok {
				return fmt.Errorf("verb2cdf: file %s is listed in catalog groups %s and %s", f, other, g.Name)
			}
			seen[f] = g.Name
		}
		t := g.Times
		if len(t.Start) != len(g.Files) || len(t.End) != len(g.Files) {
			return fmt.Errorf("verb2cdf: catalog group %s has %d files, %d start times, and %d end times",
				g.Name, len(g.Files), len(t.Start), len(t.End))
		}
		if g.PerStep && len(t.All) != len(g.Files) {
			return fmt.Errorf("verb2cdf: catalog group %s has %d files but %d times",
				g.Name, len(g.Files), len(t.All))
		}
		if !g.PerStep && len(g.Files) != 1 {
			return fmt.Errorf("verb2cdf: whole-run catalog group %s has %d files", g.Name, len(g.Files))
		}
	}
	return nil
}

// ListFile returns the name of the file list.
func (c *Catalog) ListFile() string { return c.Model + "_list.txt" }

// TimesFile returns the name of the time list.
func (c *Catalog) TimesFile() string { return c.Model + "_times.txt" }

// WriteList writes the start and end date and time of every file.
func (c *Catalog) WriteList(w io.Writer) error {
	if err := c.Check(); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%s file list start and end dates and times", c.Model)
	for _, g := range c.Groups {
		for i, f := range g.Files {
			fmt.Fprintf(b, "\n%s\t%s\t%s", filepath.ToSlash(f),
				c.formatHours(g.Times.Start[i]), c.formatHours(g.Times.End[i]))
		}
	}
	return b.Flush()
}

// WriteTimes writes the times contained in each group.
func (c *Catalog) WriteTimes(w io.Writer) error {
	if err := c.Check(); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%s time grid per pattern", c.Model)
	for _, g := range c.Groups {
		fmt.Fprintf(b, "\nPattern: %s", g.Name)
		for _, t := range g.Times.All {
			fmt.Fprintf(b, "\n%s", formatFloat(t))
		}
	}
	return b.Flush()
}

// Write writes the list and times files into dir and returns their paths.
func (c *Catalog) Write(dir string) (listFile, timesFile string, err error) {
	listFile = filepath.Join(dir, c.ListFile())
	if err = writeFile(listFile, c.WriteList); err != nil {
		return "", "", err
	}
	timesFile = filepath.Join(dir, c.TimesFile())
	if err = writeFile(timesFile, c.WriteTimes); err != nil {
		return "", "", err
	}
	return listFile, timesFile, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	return writeAtomic(path, func(f *os.File) error { return write(f) })
}

// formatHours returns the date and time h hours after the start date,
// to microsecond precision.
func (c *Catalog) formatHours(h float64) string {
	d := time.Duration(math.Round(h*float64(time.Hour/time.Microsecond))) * time.Microsecond
	t := c.StartDate.Add(d)
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.000000")
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatFloat formats v with 32-bit precision so that it always reads
// as a floating point number, e.g. "12.0" rather than "12".
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
