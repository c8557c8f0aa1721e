package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupError(t *testing.T) {
	err := startupError([]string{"- COMFY_URL environment variable not set"}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to start comfymcp:")
	assert.Contains(t, err.Error(), "COMFY_URL environment variable not set")
	assert.Contains(t, err.Error(), "Run 'comfymcp nodes'")
}

func TestStartupErrorWithoutWorkflowOmitsNodesHint(t *testing.T) {
	// without a loaded workflow there is nothing for 'comfymcp nodes' to show
	err := startupError([]string{"- COMFY_WORKFLOW_JSON_FILE environment variable not set"}, false)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "comfymcp nodes")
}
