package main

import (
	"github.com/aussiebroadwan/taskboard/internal/api/app"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "taskboard",
	Short:   "Taskboard - users, projects and tasks over a REST API",
	Long:    `Taskboard serves a JSON API for users, projects and tasks backed by MongoDB or SQLite.`,
	Version: app.BuildVersion,

	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, useraddCmd)
}
