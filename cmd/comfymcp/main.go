package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"comfymcp/logger"
	"comfymcp/mcpserver"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "comfymcp",
	Short: "MCP server exposing ComfyUI image generation as agent tools",
	Long: "Comfymcp loads a ComfyUI workflow JSON, discovers its prompt and output\n" +
		"nodes, and exposes image generation to MCP clients over stdio.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.Version = version
	mcpserver.Version = version
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
