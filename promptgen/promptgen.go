// Package promptgen turns a plain topic into an image-generation prompt
// using an Ollama instance through its OpenAI-compatible API.
package promptgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are an AI Image Generation Prompt Assistant.
Your job is to review the topic provided by the user for an image generation task and create
an appropriate prompt from it. Respond with a single prompt. Don't ask for feedback about the prompt.`

// PromptGenerator asks a local LLM to expand a topic into a full prompt.
type PromptGenerator struct {
	client *openai.Client
	model  string
}

// New builds a generator against apiBase (the Ollama server root, without
// the /v1 suffix) using the given model.
func New(apiBase, model string) *PromptGenerator {
	// Ollama ignores the key but the client requires one
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(apiBase, "/") + "/v1"

	return &PromptGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate returns a single image-generation prompt for the topic.
func (p *PromptGenerator) Generate(ctx context.Context, topic string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Topic: %s\nPrompt:", topic)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("prompt generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("prompt generation: model returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
