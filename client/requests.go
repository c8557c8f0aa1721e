package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"comfymcp/graphapi"
)

/*
Endpoints used from the ComfyUI server:

	POST /prompt        submit a workflow in API format
	GET  /history/{id}  job status and outputs
	GET  /view          fetch an artifact by filename/subfolder/type
*/

// SubmitPrompt posts the flat workflow for execution and returns the prompt
// id the backend assigned. A non-2xx response or a response without a prompt
// id is a hard failure; submission is never retried.
func (c *ComfyClient) SubmitPrompt(ctx context.Context, prompt graphapi.Prompt) (string, error) {
	payload := map[string]interface{}{
		"client_id": c.clientid,
		"prompt":    prompt,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompt", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit prompt: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// the backend explains rejected prompts in a structured error body
		perror := &promptError{}
		if perr := json.Unmarshal(body, perror); perr == nil && perror.Error.Message != "" {
			return "", errors.New(perror.Error.Message)
		}
		return "", fmt.Errorf("submit prompt: server returned %s", resp.Status)
	}

	queued := &queueResponse{}
	if err := json.Unmarshal(body, queued); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if queued.PromptID == "" {
		return "", ErrMissingPromptID
	}

	c.logger.Info("submitted prompt", zap.String("prompt_id", queued.PromptID))
	return queued.PromptID, nil
}

// GetHistory fetches the history map for one prompt id. The backend keys the
// response by prompt id; an id it has not registered yet is simply absent.
func (c *ComfyClient) GetHistory(ctx context.Context, promptID string) (map[string]*HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history/"+promptID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query history: server returned %s", resp.Status)
	}

	body, _ := io.ReadAll(resp.Body)
	retv := make(map[string]*HistoryEntry)
	if err := json.Unmarshal(body, &retv); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	return retv, nil
}

// GetImage fetches an artifact's bytes over HTTP via the /view endpoint.
func (c *ComfyClient) GetImage(ctx context.Context, output DataOutput) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/view?"+viewQuery(output), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: server returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ViewURL builds the externally reachable /view URL for an artifact, for
// callers that return a link instead of bytes.
func (c *ComfyClient) ViewURL(output DataOutput) string {
	return c.externalURL + "/view?" + viewQuery(output)
}

func viewQuery(output DataOutput) string {
	params := url.Values{}
	params.Add("filename", output.Filename)
	params.Add("subfolder", output.Subfolder)
	params.Add("type", output.Type)
	return params.Encode()
}
