package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fluids/internal/request"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cmdCtx := newRootCommand()
	cmd, err := root.ExecuteContextC(ctx)
	_ = cmdCtx.close()
	if err != nil {
		reportError(os.Stderr, cmd.CommandPath(), err)
		stop()
		os.Exit(1)
	}
}

// reportError prints err for the failed command at path. Usage errors get a
// pointer to the command's help.
func reportError(w io.Writer, path string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
	if request.IsUsageError(err) {
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", path)
	}
}
