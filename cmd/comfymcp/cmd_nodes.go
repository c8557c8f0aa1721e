package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comfymcp/config"
	"comfymcp/graphapi"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Show the loaded workflow's nodes and their ids",
	RunE:  runNodes,
}

func runNodes(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.WorkflowPath == "" {
		return fmt.Errorf("COMFY_WORKFLOW_JSON_FILE not set")
	}

	doc, err := graphapi.ParseDocumentFile(cfg.WorkflowPath)
	if err != nil {
		return err
	}

	fmt.Println("Workflow Nodes")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Workflow: %s\n\n", cfg.WorkflowPath)

	if doc.IsGraphForm() {
		for _, n := range doc.Graph.Nodes {
			title := ""
			if n.Title != "" {
				title = fmt.Sprintf(" (%q)", n.Title)
			}
			fmt.Printf("  [%d] %s%s\n", n.ID, n.Type, title)
		}
	} else {
		for id, n := range doc.API {
			fmt.Printf("  [%s] %s\n", id, n.ClassType)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println()
	fmt.Println("Common node types to look for:")
	fmt.Println("  - Positive prompt: CLIPTextEncode with title 'Positive'")
	fmt.Println("  - Negative prompt: CLIPTextEncode with title 'Negative'")
	fmt.Println("  - Output: SaveImage or Image Save")
	return nil
}
