// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Createch.
//
// Usage:
//
//	go run . [flags]
//	./createch [flags]
//
// Without a subcommand the interactive TUI starts. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		logging.Debugf("createch exited: %v", err)
		os.Exit(1)
	}
}
