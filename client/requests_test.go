package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfymcp/graphapi"
)

func testPrompt() graphapi.Prompt {
	return graphapi.Prompt{
		"6": &graphapi.PromptNode{
			ClassType: "CLIPTextEncode",
			Inputs:    map[string]interface{}{"text": "a cat"},
		},
	}
}

func TestSubmitPrompt(t *testing.T) {
	var gotBody map[string]json.RawMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/prompt", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"prompt_id": "42", "number": 1}`))
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	id, err := c.SubmitPrompt(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	// the payload carries the workflow under "prompt" plus our client id
	assert.Contains(t, gotBody, "prompt")
	assert.Contains(t, gotBody, "client_id")
}

func TestSubmitPromptMissingID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number": 1}`))
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	_, err := c.SubmitPrompt(context.Background(), testPrompt())
	assert.ErrorIs(t, err, ErrMissingPromptID)
}

func TestSubmitPromptServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "prompt_no_outputs", "message": "Prompt has no outputs"}, "node_errors": []}`))
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	_, err := c.SubmitPrompt(context.Background(), testPrompt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prompt has no outputs")
}

func TestGetImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/view", r.URL.Path)
		assert.Equal(t, "a.png", r.URL.Query().Get("filename"))
		assert.Equal(t, "output", r.URL.Query().Get("type"))
		w.Write([]byte("pngbytes"))
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	data, err := c.GetImage(context.Background(), DataOutput{Filename: "a.png", Type: "output"})
	require.NoError(t, err)
	assert.Equal(t, []byte("pngbytes"), data)
}

func TestViewURLUsesExternalURL(t *testing.T) {
	c := NewComfyClient("http://internal:8188", WithExternalURL("https://public.example.com"))

	url := c.ViewURL(DataOutput{Filename: "a.png", Subfolder: "sub", Type: "output"})
	assert.Contains(t, url, "https://public.example.com/view?")
	assert.Contains(t, url, "filename=a.png")
	assert.Contains(t, url, "subfolder=sub")
}
