// Package mcpserver registers the image-generation tools on an MCP server
// and runs it over stdio.
package mcpserver

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"comfymcp/config"
	"comfymcp/generate"
	"comfymcp/graphapi"
	"comfymcp/logger"
	"comfymcp/promptgen"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server wires the generator and optional prompt generator into MCP tools.
type Server struct {
	MCPServer *sdkmcp.Server

	generator *generate.Generator
	prompts   *promptgen.PromptGenerator
	workflow  *graphapi.Document
	logger    *zap.Logger
}

// ToolDescription is the metadata for one registered tool, also used by the
// schema command for offline inspection.
type ToolDescription struct {
	Name        string
	Description string
	Params      []string
}

// NewServer builds the MCP server. The prompt-generation tool is only
// registered when the Ollama backend is configured, matching the optional
// nature of that feature.
func NewServer(cfg *config.Config, gen *generate.Generator, doc *graphapi.Document) *Server {
	s := &Server{
		generator: gen,
		workflow:  doc,
		logger:    logger.Get().Named("mcp"),
	}
	if cfg.HasOllamaConfig() {
		s.prompts = promptgen.New(cfg.OllamaAPIBase, cfg.PromptLLM)
	}

	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "comfymcp", Version: Version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server over stdio")
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// Tools returns the descriptions of every tool this server would register,
// including conditionally absent ones marked accordingly.
func (s *Server) Tools() []ToolDescription {
	retv := []ToolDescription{
		{
			Name:        "generate_image",
			Description: "Generate an image using the configured ComfyUI workflow",
			Params:      []string{"positive_prompt (required)", "negative_prompt", "save_path", "width", "height"},
		},
		{
			Name:        "list_workflow_nodes",
			Description: "List the nodes of the loaded workflow with their ids, types and titles",
		},
	}
	if s.prompts != nil {
		retv = append(retv, ToolDescription{
			Name:        "generate_prompt",
			Description: "Generate an image generation prompt from a topic",
			Params:      []string{"topic (required)"},
		})
	}
	return retv
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "generate_image",
		Description: "Generate an image using the configured ComfyUI workflow. Returns the saved file path or a view URL depending on the configured output mode.",
	}, s.handleGenerateImage)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_workflow_nodes",
		Description: "List the nodes of the loaded workflow with their ids, types and titles.",
	}, s.handleListWorkflowNodes)

	if s.prompts != nil {
		sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
			Name:        "generate_prompt",
			Description: "Generate an image generation prompt from a topic.",
		}, s.handleGeneratePrompt)
	}
}

// --- Tool input/output types ---

type generateImageInput struct {
	PositivePrompt string `json:"positive_prompt" jsonschema:"the positive prompt describing what to generate"`
	NegativePrompt string `json:"negative_prompt,omitempty" jsonschema:"the negative prompt describing what to avoid"`
	SavePath       string `json:"save_path,omitempty" jsonschema:"absolute path to the directory where the image should be saved"`
	Width          int    `json:"width,omitempty" jsonschema:"width of the generated image in pixels"`
	Height         int    `json:"height,omitempty" jsonschema:"height of the generated image in pixels"`
}

type generateImageOutput struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

type listWorkflowNodesInput struct{}

type workflowNode struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

type listWorkflowNodesOutput struct {
	Nodes []workflowNode `json:"nodes"`
}

type generatePromptInput struct {
	Topic string `json:"topic" jsonschema:"the topic to generate a prompt for"`
}

type generatePromptOutput struct {
	Prompt string `json:"prompt"`
}

// --- Tool handlers ---

func (s *Server) handleGenerateImage(ctx context.Context, _ *sdkmcp.CallToolRequest, input generateImageInput) (*sdkmcp.CallToolResult, generateImageOutput, error) {
	if input.PositivePrompt == "" {
		return nil, generateImageOutput{}, fmt.Errorf("positive_prompt is required")
	}

	result, err := s.generator.Generate(ctx, generate.Request{
		PositivePrompt: input.PositivePrompt,
		NegativePrompt: input.NegativePrompt,
		SavePath:       input.SavePath,
		Width:          input.Width,
		Height:         input.Height,
	})
	if err != nil {
		s.logger.Warn("generation failed", zap.Error(err))
		return nil, generateImageOutput{}, err
	}

	return nil, generateImageOutput{Path: result.Path, URL: result.URL}, nil
}

func (s *Server) handleListWorkflowNodes(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listWorkflowNodesInput) (*sdkmcp.CallToolResult, listWorkflowNodesOutput, error) {
	out := listWorkflowNodesOutput{Nodes: []workflowNode{}}

	if s.workflow == nil {
		return nil, out, fmt.Errorf("no workflow loaded")
	}

	if s.workflow.IsGraphForm() {
		for _, n := range s.workflow.Graph.Nodes {
			out.Nodes = append(out.Nodes, workflowNode{
				ID:    fmt.Sprintf("%d", n.ID),
				Type:  n.Type,
				Title: n.Title,
			})
		}
	} else {
		for id, n := range s.workflow.API {
			out.Nodes = append(out.Nodes, workflowNode{ID: id, Type: n.ClassType})
		}
	}

	return nil, out, nil
}

func (s *Server) handleGeneratePrompt(ctx context.Context, _ *sdkmcp.CallToolRequest, input generatePromptInput) (*sdkmcp.CallToolResult, generatePromptOutput, error) {
	if input.Topic == "" {
		return nil, generatePromptOutput{}, fmt.Errorf("topic is required")
	}

	prompt, err := s.prompts.Generate(ctx, input.Topic)
	if err != nil {
		return nil, generatePromptOutput{}, err
	}
	return nil, generatePromptOutput{Prompt: prompt}, nil
}
