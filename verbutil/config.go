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
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/verb2cdf"
	"github.com/spf13/cast"
)

// NewLogger returns a logger that writes messages at or above
// the named level to w.
func NewLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("verb2cdf: invalid LogLevel: %v", err)
	}
	log := logrus.New()
	log.Out = w
	log.Level = lvl
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return log, nil
}

// parseStartDate interprets the StartDate configuration value.
// A blank value returns the zero time, which means that the
// start date should be read from the run metadata.
// Any time zone is discarded, keeping the wall-clock time.
func parseStartDate(v interface{}) (time.Time, error) {
	var t time.Time
	switch vv := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time: // TOML and YAML configuration files can hold dates.
		t = vv
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("verb2cdf: invalid StartDate: %v", err)
		}
		if s == "" {
			return time.Time{}, nil
		}
		if t, err = verb2cdf.ParseISOTime(s); err == nil {
			return t, nil
		}
		if t, err = cast.ToTimeE(s); err != nil {
			return time.Time{}, fmt.Errorf("verb2cdf: invalid StartDate %q: %v", s, err)
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
		t.Second(), t.Nanosecond(), time.UTC), nil
}
