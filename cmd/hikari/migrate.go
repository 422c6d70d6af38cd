package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/hikari/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	migrate := &cobra.Command{
		Use:         "migrate",
		Short:       "Apply or revert the database schema",
		Annotations: map[string]string{skipStore: ""},
	}
	migrate.AddCommand(
		a.migrateStep("up", "Apply pending migrations", storage.MigrateUp),
		a.migrateStep("down", "Drop every table hikari created", storage.MigrateDown),
	)
	return migrate
}

func (a *app) migrateStep(use, short string, fn func(db *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        wrapArgs(cobra.NoArgs),
		Annotations: map[string]string{skipStore: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := storage.OpenDB(a.cfg.Database.Driver, a.cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			if err := fn(db); err != nil {
				return err
			}
			a.log.Info("migrated "+use, "path", a.cfg.Database.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", use)
			return nil
		},
	}
}
