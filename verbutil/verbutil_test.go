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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testRun copies the example model run into a temporary directory and
// returns the path of its output directory.
func testRun(t *testing.T) string {
	t.Helper()
	const src = "../testdata/run"
	root := t.TempDir()
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(root, rel)
		if info.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, b, 0644)
	})
	if err != nil {
		t.Fatal(err)
	}
	return filepath.Join(root, "Output")
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)
	Root.SetArgs(args)
	if err := Root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestConvertCmd(t *testing.T) {
	dir := testRun(t)
	Cfg.Set("dir", dir)
	Cfg.Set("StartDate", "")
	Cfg.Set("LogLevel", "error")
	out := execute(t, "convert")
	for _, want := range []string{"OutPSD_Flux: 3 file(s)", "OutPSD_lmk: 3 file(s)", "perp_grid: 1 file(s)", "out1d: 1 file(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
	b, err := os.ReadFile(filepath.Join(dir, "VERB-3D_list.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\t2015-03-17 06:00:00\t") {
		t.Errorf("list file does not use the start date from DatabaseInfo1:\n%s", b)
	}

	out = execute(t, "inspect", filepath.Join(dir, "OutPSD_lmk2.nc"))
	for _, want := range []string{"time = 1", "Mu = 2", "float PSD_2(L, Mu, K) [(c/MeV/cm)^3]", "float time(time) [days] min=1.25 max=1.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output %q does not contain %q", out, want)
		}
	}
}

func TestConvertCmdStartDate(t *testing.T) {
	dir := testRun(t)
	Cfg.Set("dir", dir)
	Cfg.Set("StartDate", "2020-02-03T04:05:06")
	Cfg.Set("LogLevel", "error")
	defer Cfg.Set("StartDate", "")
	execute(t, "convert")
	b, err := os.ReadFile(filepath.Join(dir, "VERB-3D_list.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\t2020-02-03 04:05:06\t") {
		t.Errorf("list file does not use the configured start date:\n%s", b)
	}
}

func TestStartDateCmd(t *testing.T) {
	dir := testRun(t)
	Cfg.Set("dir", dir)
	Cfg.Set("LogLevel", "error")
	out := execute(t, "startdate")
	if want := "2015-03-17 06:00:00"; strings.TrimSpace(out) != want {
		t.Errorf("have %q, want %q", out, want)
	}
}

func TestVersionCmd(t *testing.T) {
	if out := execute(t, "version"); !strings.HasPrefix(out, "verb2cdf v") {
		t.Errorf("have %q", out)
	}
}

func TestConvertMissingDir(t *testing.T) {
	Cfg.Set("dir", filepath.Join(t.TempDir(), "missing"))
	Cfg.Set("LogLevel", "error")
	Root.SetOutput(&bytes.Buffer{})
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"convert"})
	if err := Root.Execute(); err == nil {
		t.Error("expected an error")
	}
}

func TestParseStartDate(t *testing.T) {
	for _, test := range []struct {
		in   interface{}
		want time.Time
		err  bool
	}{
		{in: nil},
		{in: ""},
		{in: "2015-03-17", want: time.Date(2015, 3, 17, 0, 0, 0, 0, time.UTC)},
		{in: "2015-03-17T06:00:00+05:00", want: time.Date(2015, 3, 17, 6, 0, 0, 0, time.UTC)},
		{in: time.Date(2015, 3, 17, 6, 0, 0, 0, time.FixedZone("x", 3600)), want: time.Date(2015, 3, 17, 6, 0, 0, 0, time.UTC)},
		{in: "not a date", err: true},
	} {
		have, err := parseStartDate(test.in)
		if (err != nil) != test.err {
			t.Errorf("%v: error %v", test.in, err)
			continue
		}
		if !have.Equal(test.want) {
			t.Errorf("%v: have %v, want %v", test.in, have, test.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("warning", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.WithField("file", "x.nc").Warn("shown")
	if s := buf.String(); strings.Contains(s, "hidden") || !strings.Contains(s, "shown") || !strings.Contains(s, "file=x.nc") {
		t.Errorf("unexpected log output %q", s)
	}
	if _, err := NewLogger("loud", &buf); err == nil {
		t.Error("expected an error for an invalid level")
	}
}
