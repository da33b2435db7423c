// Command nodedesign aligns, distributes and lays out node-graph workflows.
//
// Exit status is 0 on success, 1 on unexpected failures, 2 for bad input
// (unknown operation, invalid workflow, unknown node), 3 when the layout
// engine refused the selection, and 130 on interrupt.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodedesign/internal/cli"
	"github.com/matzehuels/nodedesign/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()
	if err != nil {
		if !stderrors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// --verbose is only known once flags are parsed.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return setup(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return 130
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOperation,
		errors.ErrCodeInvalidWorkflow, errors.ErrCodeNotFound:
		return 2
	case errors.ErrCodeInsufficientSelection, errors.ErrCodeCycleOrDisconnected,
		errors.ErrCodeNoRoot, errors.ErrCodeEmptyHistory:
		return 3
	}
	return 1
}
