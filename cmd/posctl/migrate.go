package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"restopos/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if _, err := openDatabase(cfg, true); err != nil {
			return err
		}
		fmt.Println("migrations completed")
		return nil
	},
}
