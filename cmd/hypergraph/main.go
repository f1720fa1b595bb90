// SPDX-License-Identifier: MIT

// Command hypergraph analyzes propositions: semantic stability against a
// baseline cloud, and the narrative topology/equilibrium/reconstruction
// phases through a text-generation backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soyuz43/hypergraph-cli/stability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root, a := newRootCmd(os.Stdout, os.Stderr)
	err := root.ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for startup configuration problems, 1 otherwise.
func exitCode(err error) int {
	if stability.IsConfigurationError(err) {
		return 2
	}

	return 1
}
