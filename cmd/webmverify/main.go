// Package main provides the CLI entry point for webmverify.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	coreerrors "github.com/five82/webmverify/internal/errors"
)

const (
	appName    = "webmverify"
	appVersion = "0.1.0"
)

// Exit codes.
const (
	exitOK           = 0
	exitFailure      = 1
	exitNotCompliant = 2
	exitInterrupted  = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNotCompliant):
		return exitNotCompliant
	case coreerrors.IsCancelled(err) || errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Exiting after interrupt")
		return exitInterrupted
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}
