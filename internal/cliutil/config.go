/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cliutil holds the configuration and logging plumbing shared by
// the cmd/sirocco subcommands: a viper-backed Cfg that binds flags,
// environment variables and an optional TOML file together, and a
// logrus-based logger setup.
package cliutil

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
)

// Cfg holds configuration information for a sirocco run, wrapping a
// *viper.Viper so values can come from flags, environment variables (in
// the form SIROCCO_Var) or a config file, in that order of precedence.
type Cfg struct {
	*viper.Viper
}

// NewCfg returns an initialized Cfg with its defaults set.
func NewCfg() *Cfg {
	cfg := &Cfg{Viper: viper.New()}
	cfg.SetEnvPrefix("SIROCCO")
	cfg.AutomaticEnv()

	cfg.SetDefault("Rstar", 7e10)
	cfg.SetDefault("Rmax", 1e12)
	cfg.SetDefault("NShells", 30)
	cfg.SetDefault("Vmax", 3e8)
	cfg.SetDefault("ElectronDensity", 1e10)
	cfg.SetDefault("MassDensity", 1e-13)
	cfg.SetDefault("NPhotons", 100000)
	cfg.SetDefault("NCycles", 5)
	cfg.SetDefault("NWorkers", 0)
	cfg.SetDefault("Seed", int64(1))
	cfg.SetDefault("SMaxFrac", 0.1)
	cfg.SetDefault("PMaxSafetyFactor", 0.2)
	cfg.SetDefault("MacroAtom", false)
	cfg.SetDefault("LogLevel", "info")
	cfg.SetDefault("LogFile", "")

	return cfg
}

// BindRunFlags attaches the run command's persistent flags to cfg so that
// flag, environment variable and config-file values all resolve through
// the same Cfg.
func (cfg *Cfg) BindRunFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.Float64("rstar", cfg.GetFloat64("Rstar"), "central object radius (cm)")
	flags.Float64("rmax", cfg.GetFloat64("Rmax"), "outer wind radius (cm)")
	flags.Int("nshells", cfg.GetInt("NShells"), "number of log-spaced radial shells")
	flags.Float64("vmax", cfg.GetFloat64("Vmax"), "terminal wind velocity (cm/s)")
	flags.Float64("electrondensity", cfg.GetFloat64("ElectronDensity"), "electron number density (cm^-3)")
	flags.Float64("massdensity", cfg.GetFloat64("MassDensity"), "mass density (g/cm^3)")
	flags.Int("nphotons", cfg.GetInt("NPhotons"), "photons per cycle")
	flags.Int("ncycles", cfg.GetInt("NCycles"), "number of ionization cycles")
	flags.Int("nworkers", cfg.GetInt("NWorkers"), "transport workers (0 = GOMAXPROCS)")
	flags.Int64("seed", cfg.GetInt64("Seed"), "base RNG seed")
	flags.Float64("smaxfrac", cfg.GetFloat64("SMaxFrac"), "max sampler step as a fraction of cell scale")
	flags.Float64("pmaxsafetyfactor", cfg.GetFloat64("PMaxSafetyFactor"), "safety margin applied over Pmax in the anisotropic re-emission sampler")
	flags.Bool("macroatom", cfg.GetBool("MacroAtom"), "use weight-conserving macro-atom continuum treatment")
	flags.String("loglevel", cfg.GetString("LogLevel"), "panic, fatal, error, warn, info, debug or trace")
	flags.String("logfile", cfg.GetString("LogFile"), "log output file (default stderr)")

	cfg.BindPFlags(flags)
}

// ReadConfigFile merges filename, a TOML document, into cfg if filename is
// non-empty. A missing or malformed file is reported back to the caller;
// callers that treat the config file as optional should only call this
// when the user has actually supplied one.
func (cfg *Cfg) ReadConfigFile(filename string) error {
	if filename == "" {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("sirocco: the configuration file %q does not appear to exist", filename)
	}
	defer file.Close()

	raw, err := ioutil.ReadAll(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("sirocco: problem reading configuration file: %v", err)
	}

	var doc map[string]interface{}
	if _, err := toml.Decode(string(raw), &doc); err != nil {
		return fmt.Errorf("sirocco: error parsing configuration file: %v", err)
	}
	return cfg.MergeConfigMap(doc)
}
