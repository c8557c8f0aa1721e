package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comfymcp/config"
	"comfymcp/mcpserver"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the MCP tools this server exposes",
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// build an unconnected server just to enumerate tool metadata
	srv := mcpserver.NewServer(cfg, nil, nil)

	fmt.Println("comfymcp - Available Tools")
	fmt.Println(strings.Repeat("=", 80))
	for _, tool := range srv.Tools() {
		fmt.Printf("\nTool: %s\n", tool.Name)
		fmt.Printf("Description: %s\n", tool.Description)
		if len(tool.Params) > 0 {
			fmt.Println("Parameters:")
			for _, p := range tool.Params {
				fmt.Printf("  - %s\n", p)
			}
		}
		fmt.Println("\n" + strings.Repeat("-", 80))
	}
	return nil
}
