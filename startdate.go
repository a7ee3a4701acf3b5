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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultStartDate is the simulation start date used when no metadata
// source specifies one.
var DefaultStartDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	// DatabaseInfoFile is the legacy VERB run configuration file,
	// found in the parent of the output directory.
	DatabaseInfoFile = "DatabaseInfo1"

	// MetadataFile is the run metadata file, found in the output
	// directory or its parent.
	MetadataFile = "ror_metadata.json"

	databaseInfoDateFormat = "2006/01/02 15:04"
)

var startTimeRx = regexp.MustCompile(`(\d{4}/\d{2}/\d{2} \d{2}:\d{2})\s+# start_time`)

// A StartDateResolver looks for the simulation start date associated
// with a model output directory. ok is false if its source does not
// exist or does not specify a date.
type StartDateResolver interface {
	Name() string
	Resolve(dir string) (date time.Time, ok bool, err error)
}

// DefaultResolvers returns the start date sources in priority order:
// later sources override earlier ones.
func DefaultResolvers() []StartDateResolver {
	return []StartDateResolver{
		DatabaseInfoResolver{},
		MetadataJSONResolver{},
	}
}

// ResolveStartDate applies resolvers to dir in order and returns the date
// from the last one that finds one, or DefaultStartDate if none do.
// If no resolvers are given, DefaultResolvers are used.
// The returned time has no time zone information; it is
// a wall-clock time stored in UTC.
func ResolveStartDate(dir string, log logrus.FieldLogger, resolvers ...StartDateResolver) (time.Time, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if len(resolvers) == 0 {
		resolvers = []StartDateResolver{
			DatabaseInfoResolver{},
			MetadataJSONResolver{Log: log},
		}
	}
	date := DefaultStartDate
	source := "default"
	for _, r := range resolvers {
		d, ok, err := r.Resolve(dir)
		if err != nil {
			return time.Time{}, fmt.Errorf("verb2cdf: resolving start date from %s: %v", r.Name(), err)
		}
		if !ok {
			log.WithFields(logrus.Fields{"source": r.Name(), "dir": dir}).Debug("no start date found")
			continue
		}
		date, source = d, r.Name()
	}
	log.WithFields(logrus.Fields{"source": source, "start_date": date.Format(time.RFC3339)}).Info("resolved simulation start date")
	return date, nil
}

// DatabaseInfoResolver reads the start date from a legacy VERB
// configuration file in the parent of the output directory, where it is
// stored on a line like `2015/03/17 06:00  # start_time`.
// Lines with malformed dates are ignored, and the last valid line wins.
type DatabaseInfoResolver struct {
	// FileName overrides DatabaseInfoFile.
	FileName string
}

// Name implements StartDateResolver.
func (r DatabaseInfoResolver) Name() string { return "database info" }

// Resolve implements StartDateResolver.
func (r DatabaseInfoResolver) Resolve(dir string) (time.Time, bool, error) {
	name := r.FileName
	if name == "" {
		name = DatabaseInfoFile
	}
	path := filepath.Join(dir, "..", name)
	if !isFile(path) {
		return time.Time{}, false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false, err
	}
	defer f.Close()

	var date time.Time
	found := false
	s := bufio.NewScanner(f)
	for s.Scan() {
		m := startTimeRx.FindStringSubmatch(s.Text())
		if m == nil {
			continue
		}
		d, err := time.Parse(databaseInfoDateFormat, m[1])
		if err != nil {
			continue
		}
		date, found = d, true
	}
	if err := s.Err(); err != nil {
		return time.Time{}, false, fmt.Errorf("reading %s: %v", path, err)
	}
	return date, found, nil
}

// MetadataJSONResolver reads the start date from the simulationStartTime
// field of a JSON metadata file in the output directory or, if it is not
// there, in the parent directory. A file that cannot be parsed is an error.
type MetadataJSONResolver struct {
	// FileName overrides MetadataFile.
	FileName string

	// Log receives a message when a time zone offset is discarded.
	// If nil, the logrus standard logger is used.
	Log logrus.FieldLogger
}

// Name implements StartDateResolver.
func (r MetadataJSONResolver) Name() string { return "metadata json" }

// Resolve implements StartDateResolver.
func (r MetadataJSONResolver) Resolve(dir string) (time.Time, bool, error) {
	name := r.FileName
	if name == "" {
		name = MetadataFile
	}
	var path string
	for _, p := range []string{filepath.Join(dir, name), filepath.Join(dir, "..", name)} {
		if isFile(p) {
			path = p
			break
		}
	}
	if path == "" {
		return time.Time{}, false, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false, err
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal(b, &metadata); err != nil {
		return time.Time{}, false, fmt.Errorf("parsing %s: %v", path, err)
	}
	v, ok := metadata["simulationStartTime"]
	if !ok || v == nil {
		return time.Time{}, false, nil
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false, fmt.Errorf("%s: simulationStartTime is %T, not a string", path, v)
	}
	if s == "" {
		return time.Time{}, false, nil
	}
	d, offset, err := parseISOTime(s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %v", path, err)
	}
	if offset != "" {
		log := r.Log
		if log == nil {
			log = logrus.StandardLogger()
		}
		log.WithFields(logrus.Fields{
			"file":   path,
			"value":  s,
			"offset": offset,
		}).Debug("discarded time zone offset from simulation start time")
	}
	return d, true, nil
}

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// ParseISOTime parses an ISO 8601 date or date-time. Any UTC offset
// is discarded: the result is the wall-clock time, stored in UTC.
func ParseISOTime(s string) (time.Time, error) {
	t, _, err := parseISOTime(s)
	return t, err
}

// parseISOTime is ParseISOTime that also returns the discarded
// offset, e.g. "+02:00" or "Z", or "" if s has none.
func parseISOTime(s string) (time.Time, string, error) {
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		var offset string
		if strings.HasSuffix(layout, "Z07:00") {
			offset = t.Format("Z07:00")
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
			t.Second(), t.Nanosecond(), time.UTC), offset, nil
	}
	return time.Time{}, "", fmt.Errorf("invalid ISO 8601 time %q", s)
}

// isFile returns whether path exists and is a regular file.
func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
