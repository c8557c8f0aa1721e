package client

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comfymcp/logger"
)

// Sentinel errors for the distinct failure modes the orchestrator needs to
// tell apart.
var (
	ErrMissingPromptID   = errors.New("submission response contained no prompt id")
	ErrPollTimeout       = errors.New("polling attempts exhausted before the job completed")
	ErrOutputDirNotFound = errors.New("output directory not found")
	ErrNoImagesFound     = errors.New("no image files found in output directory")
)

// Poll profiles: the short profile matches a workflow whose image is ready
// the moment the job completes; the settling profile leaves time for save
// nodes that write to disk after completion.
const (
	DefaultPollAttempts  = 20
	DefaultPollInterval  = time.Second
	SettlingPollAttempts = 60
	SettlingPollInterval = 5 * time.Second
)

// ComfyClient talks to one ComfyUI backend. It owns the three verbs the
// generation lifecycle needs (submit, poll, fetch) plus artifact location in
// the backend's output directory.
type ComfyClient struct {
	baseURL     string
	externalURL string
	outputDir   string
	clientid    string
	httpclient  *http.Client
	logger      *zap.Logger
}

// Option configures a ComfyClient
type Option func(*ComfyClient)

// WithExternalURL sets the public URL used when returning view links.
// Defaults to the base URL.
func WithExternalURL(url string) Option {
	return func(c *ComfyClient) {
		if url != "" {
			c.externalURL = strings.TrimRight(url, "/")
		}
	}
}

// WithOutputDir sets the directory where the backend writes its images,
// enabling filesystem artifact location.
func WithOutputDir(dir string) Option {
	return func(c *ComfyClient) { c.outputDir = dir }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ComfyClient) { c.httpclient = hc }
}

// NewComfyClient creates a client for the ComfyUI server at baseURL.
func NewComfyClient(baseURL string, opts ...Option) *ComfyClient {
	retv := &ComfyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientid:   uuid.New().String(),
		httpclient: &http.Client{},
		logger:     logger.Get().Named("comfy"),
	}
	retv.externalURL = retv.baseURL
	for _, opt := range opts {
		opt(retv)
	}
	return retv
}

// ClientID returns the unique client id sent with every submission. The
// backend routes websocket progress messages by this id.
func (c *ComfyClient) ClientID() string {
	return c.clientid
}

// BaseURL returns the configured backend URL.
func (c *ComfyClient) BaseURL() string {
	return c.baseURL
}
