package main

import (
	"context"

	"github.com/spf13/cobra"

	"aegis/internal/logging"
	"aegis/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout. Agent hosts connect via their MCP
configuration and call the assessment tools directly.

The background sweeper runs while the server is up, purging soft-deleted
assessments that have passed the restore window.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go a.life.RunSweeper(ctx, a.cfg.Lifecycle.SweepInterval)

	logging.New("mcp").Info("starting aegis MCP server over stdio")
	srv := mcpserver.NewServer(a.st, a.cat, a.coord, a.life, a.gen)
	return srv.Run(ctx)
}
