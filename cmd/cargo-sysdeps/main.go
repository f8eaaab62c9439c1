package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arc-language/cargo-sysdeps/internal/cli"
)

// Set via -ldflags at build time.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)

	// cargo runs external subcommands as `cargo-sysdeps sysdeps <args>`.
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "sysdeps" {
		args = args[1:]
	}

	if err := cli.Execute(ctx, args); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
