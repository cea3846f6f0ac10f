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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirocco-rt/sirocco"
	"github.com/sirocco-rt/sirocco/internal/cliutil"
)

const version = "0.1.0"

var configFile string

var cfg = cliutil.NewCfg()

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.PersistentFlags().StringVar(&configFile, "config", "", "configuration file location (TOML)")
	cfg.BindRunFlags(runCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "sirocco",
	Short: "A Monte Carlo photon transport engine.",
	Long: `sirocco drives photon bundles through a wind or disk grid by Monte
Carlo transport, accumulating per-cell radiation-field estimators across
an ionization cycle. Use the subcommands below to access it.

Configuration can be set by flags, by environment variables in the form
SIROCCO_var, or by a TOML file passed with --config.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cfg.ReadConfigFile(configFile)
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number",
	DisableAutoGenTag: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sirocco v%s\n", version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a spherical-wind ionization simulation.",
	Long: `run builds the one-domain spherical wind scenario from the
configured parameters and transports NCycles cycles of NPhotons photons
each, logging a one-line summary per cycle.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := cliutil.NewLogger(cfg.GetString("loglevel"), cfg.GetString("logfile"))
		if err != nil {
			return err
		}

		sim := sirocco.DemoSphericalWind(
			cfg.GetFloat64("rstar"),
			cfg.GetFloat64("rmax"),
			cfg.GetInt("nshells"),
			cfg.GetFloat64("vmax"),
			cfg.GetFloat64("electrondensity"),
			cfg.GetFloat64("massdensity"),
		)
		sim.Seed = cfg.GetInt64("seed")
		sim.NWorkers = cfg.GetInt("nworkers")
		sim.Config.SMaxFrac = cfg.GetFloat64("smaxfrac")
		sim.Config.PMaxSafetyFactor = cfg.GetFloat64("pmaxsafetyfactor")
		sim.Config.MacroAtom = cfg.GetBool("macroatom")

		nPhotons := cfg.GetInt("nphotons")
		nCycles := cfg.GetInt("ncycles")

		logger.Infof("starting sirocco run: %d cycles of %d photons", nCycles, nPhotons)
		for cycle := 0; cycle < nCycles; cycle++ {
			photons := sim.GeneratePhotons(nPhotons)
			result := sim.RunCycle(photons)
			sirocco.LogCycle(os.Stdout, cycle, result)
			logger.Debugf("cycle %d walltime %s", cycle, result.Duration)
		}
		return nil
	},
}
