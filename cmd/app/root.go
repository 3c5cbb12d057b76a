package main

import (
	"errors"
	"io/fs"

	"HodlCalc/pkg/config"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

type rootFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "hodlcalc",
		Short:         "Bitcoin holding valuation and price projection",
		Long:          "Serve the BTC projection dashboard API, or run projections and valuations from the shell.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defaultConfigPath, "config file path")

	root.AddCommand(
		newServeCmd(flags),
		newProjectCmd(flags),
		newValueCmd(flags),
	)
	return root
}

// load reads the config file. A missing default config falls back to the
// built-in defaults so the offline commands work from any directory.
func (f *rootFlags) load(cmd *cobra.Command, withEnv bool) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if withEnv {
		cfg, err = config.LoadWithEnv(f.configPath)
	} else {
		cfg, err = config.Load(f.configPath)
	}
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default()
	}
	return nil, err
}
