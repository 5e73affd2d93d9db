// Package main provides the chatfeed command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/livechat-history-viewer/cmd/chatfeed/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chatfeed",
		Short: "Live chat history viewer",
		Long: `chatfeed renders archived live-stream chat sessions.

Commands:
  serve     Run the live viewer
  render    Render an archive into a standalone HTML page
  stats     Summarize an archive`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")

	// Add commands.
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
