package main

import (
	"github.com/spf13/cobra"

	"enabler-backend/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.Open(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer conn.Close()
		return db.Migrate(cmd.Context(), conn, cfg.DB.Driver, logger)
	},
}
