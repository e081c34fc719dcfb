package cmd

import (
	"github.com/huangsam/codecritic/internal/mcp"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the codecritic MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents review code and read review history via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdout stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		reviews := store.Manager.GetReviewStore()
		return mcp.StartMCPServer(rootCtx, newReviewer(reviews), reviews, cfg.HistoryLimit)
	},
}
