// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/classtrack/classtrack/internal/config"
	"github.com/classtrack/classtrack/internal/store"
)

// NewMigrateCmd creates the migrate subcommand and its actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, and inspect schema migrations for the PostgreSQL database.`,
	}
	cmd.PersistentFlags().String("database.url", "", "PostgreSQL connection URL")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations (drops all data)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Down(); err != nil {
						return err
					}
					cmd.Println("Migrations rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (negative n rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").Errorf("steps must be an integer, got %q", args[0])
				}
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Steps(n); err != nil {
						return err
					}
					cmd.Printf("Applied %d step(s)\n", n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					cmd.Printf("version: %d dirty: %t\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").Errorf("version must be an integer, got %q", args[0])
				}
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Force(v); err != nil {
						return err
					}
					cmd.Printf("Forced version to %d\n", v)
					return nil
				})
			},
		},
	)

	return cmd
}

// withMigrator resolves the database URL, opens a Migrator, runs fn, and
// closes the migrator.
func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	databaseURL, err := databaseURLFromCommand(cmd)
	if err != nil {
		return err
	}

	m, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error after a completed action is not actionable

	return fn(m)
}

// databaseURLFromCommand resolves the database URL from the
// --database.url flag or the config file.
func databaseURLFromCommand(cmd *cobra.Command) (string, error) {
	if url, err := cmd.Flags().GetString("database.url"); err == nil && url != "" {
		return url, nil
	}

	if configFile != "" {
		cfg, err := config.Load(configFile, nil)
		if err == nil {
			return cfg.Database.URL, nil
		}
		// Fall through so a partial config file still yields a clear error.
	}

	return "", oops.Code("CONFIG_INVALID").Errorf("database URL is required (--database.url or config file)")
}
