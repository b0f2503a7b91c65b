package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply store schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("migrate"); err != nil {
			return err
		}
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		driver := cfg.Store.Driver
		if driver == "" {
			driver = "sqlite"
		}
		zap.L().Info("schema up to date", zap.String("driver", driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
