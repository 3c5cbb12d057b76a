package main

import (
	"HodlCalc/internal/di"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, price stream and cache-warming scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load(cmd, true)
			if err != nil {
				return err
			}

			// Wire DI: Initialize all dependencies
			app, err := di.InitializeApp(cfg)
			if err != nil {
				return err
			}

			// Run application (blocks until signal)
			return app.Run()
		},
	}
}
