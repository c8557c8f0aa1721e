package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Output modes for generated images.
const (
	OutputModeFile = "file"
	OutputModeURL  = "url"
)

// Config holds all settings for the server. Environment variables always win
// over values read from an optional YAML config file.
type Config struct {
	// ComfyUI backend
	ComfyURL         string `yaml:"comfy_url"`
	ComfyURLExternal string `yaml:"comfy_url_external"`
	WorkflowPath     string `yaml:"workflow_path"`
	ComfyOutputDir   string `yaml:"comfy_output_dir"`

	// Explicit node id overrides; empty means auto-discover
	PosPromptNodeID   string `yaml:"pos_prompt_node_id"`
	NegPromptNodeID   string `yaml:"neg_prompt_node_id"`
	FilepathNodeID    string `yaml:"filepath_node_id"`
	OutputNodeID      string `yaml:"output_node_id"`
	LatentImageNodeID string `yaml:"latent_image_node_id"`

	// Output handling
	OutputMode string `yaml:"output_mode"` // "file" or "url"
	WorkingDir string `yaml:"working_dir"`

	// Optional prompt generation backend (Ollama, OpenAI-compatible)
	OllamaAPIBase string `yaml:"ollama_api_base"`
	PromptLLM     string `yaml:"prompt_llm"`

	Env string `yaml:"env"`
}

// Load reads configuration from the environment (and a .env file when
// present). If COMFY_CONFIG_FILE is set, that YAML file supplies defaults
// which the environment overrides.
func Load() (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("COMFY_CONFIG_FILE"); path != "" {
		var err error
		cfg, err = loadFile(path)
		if err != nil {
			return nil, err
		}
	}

	cfg.ComfyURL = getEnv("COMFY_URL", cfg.ComfyURL)
	cfg.ComfyURLExternal = getEnv("COMFY_URL_EXTERNAL", cfg.ComfyURLExternal)
	if cfg.ComfyURLExternal == "" {
		cfg.ComfyURLExternal = cfg.ComfyURL
	}
	cfg.WorkflowPath = getEnv("COMFY_WORKFLOW_JSON_FILE", cfg.WorkflowPath)
	cfg.ComfyOutputDir = getEnv("COMFY_OUTPUT_DIR", cfg.ComfyOutputDir)

	// PROMPT_NODE_ID is the legacy name and takes precedence
	cfg.PosPromptNodeID = getEnv("POS_PROMPT_NODE_ID", cfg.PosPromptNodeID)
	if legacy := os.Getenv("PROMPT_NODE_ID"); legacy != "" {
		cfg.PosPromptNodeID = legacy
	}
	cfg.NegPromptNodeID = getEnv("NEG_PROMPT_NODE_ID", cfg.NegPromptNodeID)
	cfg.FilepathNodeID = getEnv("FILEPATH_NODE_ID", cfg.FilepathNodeID)
	cfg.OutputNodeID = getEnv("OUTPUT_NODE_ID", cfg.OutputNodeID)
	cfg.LatentImageNodeID = getEnv("LATENT_IMAGE_NODE_ID", cfg.LatentImageNodeID)

	cfg.OutputMode = getEnv("OUTPUT_MODE", cfg.OutputMode)
	if cfg.OutputMode == "" {
		cfg.OutputMode = OutputModeFile
	}
	cfg.WorkingDir = getEnv("COMFY_WORKING_DIR", cfg.WorkingDir)

	cfg.OllamaAPIBase = getEnv("OLLAMA_API_BASE", cfg.OllamaAPIBase)
	cfg.PromptLLM = getEnv("PROMPT_LLM", cfg.PromptLLM)
	cfg.Env = getEnv("ENV", cfg.Env)
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ValidateRequired returns one message per missing required setting, in the
// same "- NAME not set" style the CLI prints at startup.
func (c *Config) ValidateRequired() []string {
	var errs []string

	if c.ComfyURL == "" {
		errs = append(errs, "- COMFY_URL environment variable not set")
	}
	if c.WorkflowPath == "" {
		errs = append(errs, "- COMFY_WORKFLOW_JSON_FILE environment variable not set")
	}
	if c.OutputMode != OutputModeFile && c.OutputMode != OutputModeURL {
		errs = append(errs, fmt.Sprintf("- OUTPUT_MODE must be %q or %q, got %q", OutputModeFile, OutputModeURL, c.OutputMode))
	}

	return errs
}

// HasOllamaConfig reports whether the optional prompt-generation backend is
// fully configured.
func (c *Config) HasOllamaConfig() bool {
	return c.OllamaAPIBase != "" && c.PromptLLM != ""
}

// DefaultSavePath is where images land when the caller does not pass one:
// <working dir>/img, or ./img without a working dir.
func (c *Config) DefaultSavePath() string {
	if c.WorkingDir != "" {
		return filepath.Join(c.WorkingDir, "img")
	}
	return filepath.Join(".", "img")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
