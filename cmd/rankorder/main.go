package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/rankorder/internal/cli"
	errs "github.com/matzehuels/rankorder/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "error:", errs.UserMessage(err))
		if code := errs.GetCode(err); code != "" {
			fmt.Fprintln(os.Stderr, "code: ", code)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// The --verbose and --config persistent flags are applied by the root
	// command before any subcommand runs.
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
