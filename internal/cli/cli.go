// Package cli parses the gossipmesh node's command-line flags with a
// single cobra command.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcastellin/gossipmesh/internal/node"
)

const usage = `A command-line gossip node that discovers and chats with its peers.

EXAMPLES:
  Start the first node in a mesh, broadcasting every 5 seconds:
    <program> --port 5000 --period 5

  Start a second node and have it connect to the first:
    <program> --port 5001 --period 5 --connect 127.0.0.1:5000`

func newRootCmd(run func(node.Config)) *cobra.Command {
	var (
		period  uint64
		port    uint16
		connect string
	)

	root := &cobra.Command{
		Use:           ".",
		Short:         "A gossip mesh participant",
		Long:          usage,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			run(node.Config{
				Port:    port,
				Period:  time.Duration(period) * time.Second,
				Connect: connect,
			})
			return nil
		},
	}

	root.Flags().Uint64Var(&period, "period", 0, "interval in seconds between broadcasts")
	root.Flags().Uint16Var(&port, "port", 0, "TCP port to listen on")
	root.Flags().StringVar(&connect, "connect", "", "address of an existing node to connect to")

	_ = root.MarkFlagRequired("period")
	_ = root.MarkFlagRequired("port")

	return root
}

// Execute parses the command line and, on success, invokes run with the
// resulting Config. On a parse or validation error, it prints the usage
// banner and the error to stderr and exits with a non-zero status.
func Execute(run func(node.Config)) {
	root := newRootCmd(run)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
