package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [dir...]",
	Short: "Show the modules currently in development mode",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	for _, dir := range args {
		if _, err := loadModule(dir); err != nil {
			return err
		}
	}

	modules := app.reg.All()
	if len(modules) == 0 {
		fmt.Println("No modules in development mode.")
		return nil
	}

	for _, m := range modules {
		version := m.Manifest.Version
		if version == "" {
			version = "(unversioned)"
		}
		fmt.Printf("%-20s %-12s %s\n", m.Name, version, m.Root)
	}
	return nil
}
