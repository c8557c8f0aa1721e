package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"comfymcp/graphapi"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// FindLatestImage locates the newest image the output node produced under
// the backend's output directory. Two save-node conventions are supported,
// selected by the node's class:
//
//   - "Image Save" (WAS suite): the node's output_path input names the
//     subdirectory. The value may be a reference into a Text String node and
//     may contain [time(...)] tokens, both resolved here.
//   - anything else (stock SaveImage): the filename_prefix input may embed a
//     subdirectory before its final path separator.
//
// Returns ErrOutputDirNotFound when the search directory does not exist and
// ErrNoImagesFound when it holds no image files.
func (c *ComfyClient) FindLatestImage(outputNode *graphapi.PromptNode, prompt graphapi.Prompt) (string, error) {
	if c.outputDir == "" {
		return "", fmt.Errorf("COMFY_OUTPUT_DIR not configured")
	}

	searchDir := c.outputDir
	if outputNode.ClassType == graphapi.ClassImageSave {
		outputPath := graphapi.ResolveInput(outputNode.GetInput("output_path"), prompt)
		outputPath = graphapi.ExpandTimeTokens(outputPath)
		if outputPath != "" {
			searchDir = filepath.Join(c.outputDir, outputPath)
		}
	} else {
		prefix, _ := outputNode.GetInput("filename_prefix").(string)
		if idx := strings.LastIndex(prefix, "/"); idx >= 0 {
			searchDir = filepath.Join(c.outputDir, filepath.FromSlash(prefix[:idx]))
		}
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrOutputDirNotFound, searchDir)
		}
		return "", fmt.Errorf("list output directory %s: %w", searchDir, err)
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// strictly-after keeps enumeration order as the deterministic tie-break
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(searchDir, entry.Name())
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoImagesFound, searchDir)
	}

	c.logger.Debug("located newest image", zap.String("path", newest))
	return newest, nil
}

// FetchArtifact reads the located image from the backend's output directory
// and persists a copy under saveDir with a timestamp-derived filename,
// preserving the original extension. Returns the image bytes and the full
// path of the saved copy.
func (c *ComfyClient) FetchArtifact(outputNode *graphapi.PromptNode, prompt graphapi.Prompt, saveDir string) ([]byte, string, error) {
	sourcePath, err := c.FindLatestImage(outputNode, prompt)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, "", fmt.Errorf("read image %s: %w", sourcePath, err)
	}

	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create save directory %s: %w", saveDir, err)
	}

	filename := time.Now().Format("2006-01-02_150405") + filepath.Ext(sourcePath)
	fullPath := filepath.Join(saveDir, filename)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("write image %s: %w", fullPath, err)
	}

	c.logger.Info("image saved locally", zap.String("path", fullPath))
	return data, fullPath, nil
}
