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

// Package verbutil contains the command-line interface
// and configuration handling for verb2cdf.
package verbutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/verb2cdf"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to verb2cdf.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "dir",
			usage: `
              dir is the directory holding the VERB-3D output to be converted.
              The converted files and the file and time lists are written to
              the same directory. It can include environment variables.`,
			shorthand:  "d",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), startdateCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the simulation start date, in ISO 8601 format. If it is
              left blank, it is read from the run metadata: the DatabaseInfo1 file in
              the parent of dir and the ror_metadata.json file in dir or its parent,
              with the latter taking precedence. If neither holds a start date,
              1970-01-01 is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages to print. Acceptable
              values are 'debug', 'info', 'warning', and 'error'.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("VERB2CDF")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(startdateCmd)
	Root.AddCommand(inspectCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("verb2cdf: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "verb2cdf",
	Short: "Convert VERB-3D output to NetCDF.",
	Long: `verb2cdf converts output from the VERB-3D radiation belt model into
NetCDF files, along with the file and time lists that the Kamodo model reader
framework uses to find the file covering a given time.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'VERB2CDF_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of verb2cdf.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("verb2cdf v%s\n", verb2cdf.Version)
	},
	DisableAutoGenTag: true,
}

// convertCmd converts one directory of model output.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a directory of VERB-3D output.",
	Long: `convert reads perp_grid.plt, OutPSD.dat, and out1d.dat from the directory
given by --dir and writes perp_grid.nc, one OutPSD_Flux{t}.nc and one
OutPSD_lmk{t}.nc file for each time step t, and out1d.nc, along with
VERB-3D_list.txt and VERB-3D_times.txt, into the same directory.
No files are written if any of the inputs is missing or invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := NewLogger(Cfg.GetString("LogLevel"), cmd.OutOrStderr())
		if err != nil {
			return err
		}
		startDate, err := parseStartDate(Cfg.Get("StartDate"))
		if err != nil {
			return err
		}
		cat, err := Convert(os.ExpandEnv(Cfg.GetString("dir")), startDate, log)
		if err != nil {
			return err
		}
		for _, g := range cat.Groups {
			cmd.Printf("%s: %d file(s)\n", g.Name, len(g.Files))
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// startdateCmd prints the simulation start date.
var startdateCmd = &cobra.Command{
	Use:   "startdate",
	Short: "Print the simulation start date.",
	Long: `startdate prints the simulation start date found in the metadata
associated with the directory given by --dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := NewLogger(Cfg.GetString("LogLevel"), cmd.OutOrStderr())
		if err != nil {
			return err
		}
		d, err := StartDate(os.ExpandEnv(Cfg.GetString("dir")), log)
		if err != nil {
			return err
		}
		cmd.Println(d.Format("2006-01-02 15:04:05"))
		return nil
	},
	DisableAutoGenTag: true,
}

// inspectCmd summarizes converted files.
var inspectCmd = &cobra.Command{
	Use:   "inspect file.nc [file.nc ...]",
	Short: "Summarize the contents of converted files.",
	Long: `inspect prints the dimensions, attributes, and variables of
one or more files written by convert, along with the range of the
values of each variable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := Inspect(cmd.OutOrStdout(), os.ExpandEnv(path)); err != nil {
				return err
			}
		}
		return nil
	},
	DisableAutoGenTag: true,
}
