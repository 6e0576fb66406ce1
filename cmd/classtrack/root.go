// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Classtrack CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classtrack",
		Short: "Classtrack - classroom progress tracking service",
		Long: `Classtrack is a role-based classroom progress tracking service.
Teachers manage classrooms, rosters, and student progress; students see
their own classrooms and progress.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
