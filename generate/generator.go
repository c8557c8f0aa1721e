package generate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"comfymcp/client"
	"comfymcp/config"
	"comfymcp/graphapi"
	"comfymcp/logger"
)

// Request carries one image-generation call. Only PositivePrompt is
// required; the other fields are applied when the workflow exposes a node
// for them.
type Request struct {
	PositivePrompt string
	NegativePrompt string
	SavePath       string
	Width          int
	Height         int
}

// Result is the outcome of a successful generation. Path and Data are set in
// file mode, URL in url mode.
type Result struct {
	Path string
	URL  string
	Data []byte
}

// Generator drives the full lifecycle for a single workflow template:
// fill roles, submit, poll to completion, locate the artifact, persist.
type Generator struct {
	client   *client.ComfyClient
	template graphapi.Prompt
	roles    graphapi.Roles

	outputMode      string
	defaultSavePath string

	pollAttempts int
	pollInterval time.Duration

	logger *zap.Logger
}

// New loads the configured workflow, normalizes it to the submission format
// and resolves the semantic roles. Missing positive-prompt or output roles
// are configuration errors; every other role degrades at call time.
func New(cfg *config.Config, c *client.ComfyClient) (*Generator, error) {
	doc, err := graphapi.ParseDocumentFile(cfg.WorkflowPath)
	if err != nil {
		return nil, err
	}

	roles := doc.DiscoverRoles(graphapi.Roles{
		PositivePrompt: cfg.PosPromptNodeID,
		NegativePrompt: cfg.NegPromptNodeID,
		Filepath:       cfg.FilepathNodeID,
		Output:         cfg.OutputNodeID,
		LatentImage:    cfg.LatentImageNodeID,
	})

	if roles.PositivePrompt == "" {
		return nil, errors.New("could not auto-discover positive prompt node; set POS_PROMPT_NODE_ID")
	}
	if roles.Output == "" {
		return nil, errors.New("could not auto-discover output node; set OUTPUT_NODE_ID")
	}

	// the loaded template is an immutable blueprint; Generate clones it
	// before filling any field
	template := doc.ToPrompt()

	// a SaveImage output needs the short poll profile; an Image Save node
	// writes after completion and needs the longer settling profile
	attempts, interval := client.DefaultPollAttempts, client.DefaultPollInterval
	if out, ok := template[roles.Output]; ok && out.ClassType == graphapi.ClassImageSave {
		attempts, interval = client.SettlingPollAttempts, client.SettlingPollInterval
	}

	retv := &Generator{
		client:          c,
		template:        template,
		roles:           roles,
		outputMode:      cfg.OutputMode,
		defaultSavePath: cfg.DefaultSavePath(),
		pollAttempts:    attempts,
		pollInterval:    interval,
		logger:          logger.Get().Named("generate"),
	}

	retv.logger.Info("workflow roles resolved",
		zap.String("positive_prompt", roles.PositivePrompt),
		zap.String("negative_prompt", orNone(roles.NegativePrompt)),
		zap.String("filepath", orNone(roles.Filepath)),
		zap.String("output", roles.Output),
		zap.String("latent_image", orNone(roles.LatentImage)))

	return retv, nil
}

// Roles returns the resolved role assignments.
func (g *Generator) Roles() graphapi.Roles {
	return g.roles
}

// Generate runs one image generation. Every failure returns a descriptive
// error suitable for showing to the caller; no stage panics or leaks a
// partial artifact.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	savePath := req.SavePath
	if savePath == "" {
		savePath = g.defaultSavePath
	}
	savePath = filepath.Clean(savePath)

	prompt, err := g.fillTemplate(req, savePath)
	if err != nil {
		return nil, err
	}

	promptID, err := g.client.SubmitPrompt(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to submit workflow: %w", err)
	}

	entry, err := g.client.PollHistory(ctx, promptID, g.pollAttempts, g.pollInterval)
	if err != nil {
		if errors.Is(err, client.ErrPollTimeout) {
			return nil, errors.New("failed to generate image, please check server logs")
		}
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	// validate the completed job's output shape before touching the filesystem
	nodeOutput, ok := entry.Outputs[g.roles.Output]
	if !ok || len(nodeOutput.Images) == 0 {
		return nil, fmt.Errorf("invalid output structure: node %s produced no images", g.roles.Output)
	}
	image := nodeOutput.Images[0]

	if g.outputMode == config.OutputModeURL {
		return &Result{URL: g.client.ViewURL(image)}, nil
	}

	data, fullPath, err := g.client.FetchArtifact(prompt[g.roles.Output], prompt, savePath)
	if err != nil {
		return nil, fmt.Errorf("error downloading/saving image: %w", err)
	}

	return &Result{Path: fullPath, Data: data}, nil
}

// fillTemplate clones the template and injects the request's values into the
// discovered role nodes. The positive prompt is mandatory; each optional
// role is skipped with a warning when its node id is absent from the
// template.
func (g *Generator) fillTemplate(req Request, savePath string) (graphapi.Prompt, error) {
	prompt := g.template.Clone()
	if prompt == nil {
		return nil, errors.New("failed to clone workflow template")
	}

	pos, ok := prompt[g.roles.PositivePrompt]
	if !ok {
		return nil, fmt.Errorf("positive prompt node %q not found in workflow template", g.roles.PositivePrompt)
	}
	pos.SetInput("text", req.PositivePrompt)

	if g.roles.NegativePrompt != "" && req.NegativePrompt != "" {
		if neg, ok := prompt[g.roles.NegativePrompt]; ok {
			neg.SetInput("text", req.NegativePrompt)
		} else {
			g.logger.Warn("negative prompt node not in workflow, skipping",
				zap.String("node_id", g.roles.NegativePrompt))
		}
	}

	if g.roles.Filepath != "" {
		if fp, ok := prompt[g.roles.Filepath]; ok {
			fp.SetInput("text", savePath)
		} else {
			g.logger.Warn("filepath node not in workflow, skipping save path",
				zap.String("node_id", g.roles.Filepath))
		}
	}

	if g.roles.LatentImage != "" && (req.Width > 0 || req.Height > 0) {
		if latent, ok := prompt[g.roles.LatentImage]; ok {
			if req.Width > 0 {
				latent.SetInput("width", req.Width)
			}
			if req.Height > 0 {
				latent.SetInput("height", req.Height)
			}
		} else {
			g.logger.Warn("latent image node not in workflow, skipping dimensions",
				zap.String("node_id", g.roles.LatentImage))
		}
	}

	return prompt, nil
}

func orNone(id string) string {
	if strings.TrimSpace(id) == "" {
		return "none"
	}
	return id
}
