package main

import (
	"os"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/transport/mcp"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve the ask and remember tools over MCP stdio",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout belongs to the protocol
		ctx, flushLog := log.NewContextWithWriter(cmd.Context(), os.Stderr, debug || config.IsDebug())
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		return mcp.NewServer(a.engine, a.cfg.Location()).ServeStdio(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
