package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comfymcp/client"
	"comfymcp/config"
	"comfymcp/generate"
	"comfymcp/graphapi"
	"comfymcp/logger"
	"comfymcp/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts the MCP server on stdin/stdout. Agent frameworks connect to it and
call the generate_image tool (plus generate_prompt when an Ollama backend is
configured).`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return err
	}

	errs := cfg.ValidateRequired()

	var gen *generate.Generator
	var doc *graphapi.Document
	if cfg.WorkflowPath != "" {
		doc, err = graphapi.ParseDocumentFile(cfg.WorkflowPath)
		if err != nil {
			errs = append(errs, "- "+err.Error())
			doc = nil
		}
	}
	if len(errs) == 0 {
		c := client.NewComfyClient(cfg.ComfyURL,
			client.WithExternalURL(cfg.ComfyURLExternal),
			client.WithOutputDir(cfg.ComfyOutputDir))

		gen, err = generate.New(cfg, c)
		if err != nil {
			errs = append(errs, "- "+err.Error())
		}
	}

	if len(errs) > 0 {
		return startupError(errs, doc != nil)
	}

	srv := mcpserver.NewServer(cfg, gen, doc)
	return srv.Run(cmd.Context())
}

// startupError assembles the accumulated startup failures into one message.
// The nodes-command hint only makes sense when a workflow was actually
// loaded; without one there is nothing for 'comfymcp nodes' to show.
func startupError(errs []string, workflowLoaded bool) error {
	lines := append([]string{"Failed to start comfymcp:"}, errs...)
	if workflowLoaded {
		lines = append(lines, "", "Run 'comfymcp nodes' to see available nodes in your workflow")
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
