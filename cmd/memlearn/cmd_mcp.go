package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jleechanorg/memlearn/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server exposing memlearn's learning tools
(memlearn_learn, memlearn_feedback, memlearn_query, memlearn_promotable)
over stdio, for use by MCP-capable agent clients.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "memlearn",
				Version: version,
				Root:    root,
				App:     cfg,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}
}
