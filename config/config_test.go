package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so tests are isolated from the
// developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COMFY_CONFIG_FILE", "COMFY_URL", "COMFY_URL_EXTERNAL",
		"COMFY_WORKFLOW_JSON_FILE", "COMFY_OUTPUT_DIR",
		"POS_PROMPT_NODE_ID", "PROMPT_NODE_ID", "NEG_PROMPT_NODE_ID",
		"FILEPATH_NODE_ID", "OUTPUT_NODE_ID", "LATENT_IMAGE_NODE_ID",
		"OUTPUT_MODE", "COMFY_WORKING_DIR", "OLLAMA_API_BASE", "PROMPT_LLM", "ENV",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMFY_URL", "http://localhost:8188")
	t.Setenv("COMFY_WORKFLOW_JSON_FILE", "/workflows/flux.json")
	t.Setenv("OUTPUT_MODE", "url")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8188", cfg.ComfyURL)
	assert.Equal(t, "/workflows/flux.json", cfg.WorkflowPath)
	assert.Equal(t, OutputModeURL, cfg.OutputMode)
	// external URL falls back to the internal one
	assert.Equal(t, "http://localhost:8188", cfg.ComfyURLExternal)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, OutputModeFile, cfg.OutputMode)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadLegacyPromptNodeID(t *testing.T) {
	clearEnv(t)
	t.Setenv("POS_PROMPT_NODE_ID", "6")
	t.Setenv("PROMPT_NODE_ID", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "16", cfg.PosPromptNodeID)
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
comfy_url: http://from-file:8188
workflow_path: /workflows/file.json
output_node_id: "9"
`), 0o644))

	t.Setenv("COMFY_CONFIG_FILE", path)
	t.Setenv("COMFY_URL", "http://from-env:8188")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8188", cfg.ComfyURL)
	assert.Equal(t, "/workflows/file.json", cfg.WorkflowPath)
	assert.Equal(t, "9", cfg.OutputNodeID)
}

func TestLoadConfigFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMFY_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRequired(t *testing.T) {
	cfg := &Config{OutputMode: "bogus"}
	errs := cfg.ValidateRequired()

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "COMFY_URL")
	assert.Contains(t, errs[1], "COMFY_WORKFLOW_JSON_FILE")
	assert.Contains(t, errs[2], "OUTPUT_MODE")

	cfg = &Config{
		ComfyURL:     "http://localhost:8188",
		WorkflowPath: "/workflows/flux.json",
		OutputMode:   OutputModeFile,
	}
	assert.Empty(t, cfg.ValidateRequired())
}

func TestHasOllamaConfig(t *testing.T) {
	assert.False(t, (&Config{}).HasOllamaConfig())
	assert.False(t, (&Config{OllamaAPIBase: "http://localhost:11434"}).HasOllamaConfig())
	assert.True(t, (&Config{OllamaAPIBase: "http://localhost:11434", PromptLLM: "llama3"}).HasOllamaConfig())
}

func TestDefaultSavePath(t *testing.T) {
	assert.Equal(t, filepath.Join("work", "img"), (&Config{WorkingDir: "work"}).DefaultSavePath())
	assert.Equal(t, "img", (&Config{}).DefaultSavePath())
}
