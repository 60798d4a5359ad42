// Package cmd wires the wormhole CLI's subcommands. The http and tcp
// subcommands share the same flags (name, target, address, metrics) and
// differ only in the proto they register; version takes no flags.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// NewRootCmd builds the root command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wormhole",
		Short: "Expose a local service through the wormhole rendezvous server",
		Long: `wormhole dials a rendezvous server, registers a name for your local
service, and forwards every connection the server accepts on your behalf
back to it over a single multiplexed, keep-alive connection.

Use the http or tcp subcommand depending on what your local service speaks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newHTTPCmd())
	root.AddCommand(newTCPCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
