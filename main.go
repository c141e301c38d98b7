// Package main is the entry point for the standup application.
package main

import (
	"fmt"
	"os"

	"github.com/standupbot/standup/cmd"
	"github.com/standupbot/standup/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
