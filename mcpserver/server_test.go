package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfymcp/config"
	"comfymcp/graphapi"
)

func toolNames(s *Server) []string {
	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Name)
	}
	return names
}

func TestToolsWithoutOllama(t *testing.T) {
	s := NewServer(&config.Config{}, nil, nil)

	names := toolNames(s)
	assert.Contains(t, names, "generate_image")
	assert.Contains(t, names, "list_workflow_nodes")
	assert.NotContains(t, names, "generate_prompt")
}

func TestToolsWithOllama(t *testing.T) {
	cfg := &config.Config{
		OllamaAPIBase: "http://localhost:11434",
		PromptLLM:     "llama3",
	}
	s := NewServer(cfg, nil, nil)

	assert.Contains(t, toolNames(s), "generate_prompt")
}

func TestListWorkflowNodes(t *testing.T) {
	doc, err := graphapi.ParseDocument([]byte(`{
		"nodes": [
			{"id": 6, "type": "CLIPTextEncode", "title": "Positive Prompt", "inputs": [], "widgets_values": []},
			{"id": 9, "type": "SaveImage", "title": "", "inputs": [], "widgets_values": []}
		],
		"links": []
	}`))
	require.NoError(t, err)

	s := NewServer(&config.Config{}, nil, doc)
	_, out, err := s.handleListWorkflowNodes(t.Context(), nil, listWorkflowNodesInput{})
	require.NoError(t, err)

	require.Len(t, out.Nodes, 2)
	assert.Equal(t, workflowNode{ID: "6", Type: "CLIPTextEncode", Title: "Positive Prompt"}, out.Nodes[0])
	assert.Equal(t, workflowNode{ID: "9", Type: "SaveImage"}, out.Nodes[1])
}

func TestListWorkflowNodesNoWorkflow(t *testing.T) {
	s := NewServer(&config.Config{}, nil, nil)
	_, _, err := s.handleListWorkflowNodes(t.Context(), nil, listWorkflowNodesInput{})
	assert.Error(t, err)
}
