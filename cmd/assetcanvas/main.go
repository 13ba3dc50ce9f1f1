package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/assetcanvas/internal/cli"
	aerrors "github.com/matzehuels/assetcanvas/pkg/errors"
)

// Exit statuses.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps its error to an exit status. Cobra has
// already printed the error.
func run(ctx context.Context) int {
	c := cli.New(os.Stderr, cli.LogInfo)
	return exitCode(c.RootCommand().ExecuteContext(ctx))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case aerrors.IsValidation(err):
		return exitInvalid
	}
	return exitFailure
}
