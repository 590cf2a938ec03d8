// Package cmd the domevent command line
package cmd

import (
	"os"

	_ "github.com/shiroyk/domevent/modules/dom"
	_ "github.com/shiroyk/domevent/modules/events"
)

// Execute main command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
