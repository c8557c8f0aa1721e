package graphapi

import (
	"strconv"
	"strings"
)

// Node classes the default role discovery expects.
const (
	ClassCLIPTextEncode   = "CLIPTextEncode"
	ClassEmptyLatentImage = "EmptyLatentImage"
	ClassImageSave        = "Image Save" // WAS node suite path-oriented save
	ClassSaveImage        = "SaveImage"  // stock ComfyUI save
	ClassTextString       = "Text String"
)

// Roles maps the semantic workflow roles to node ids. An empty id means the
// role is absent.
type Roles struct {
	PositivePrompt string
	NegativePrompt string
	Filepath       string
	Output         string
	LatentImage    string
}

// DiscoverNode finds the node carrying a semantic role. Two strict passes,
// in document order:
//
//  1. title contains any keyword (case-folded) AND the class matches when one
//     is required;
//  2. only when a class was required and pass 1 found nothing: first node of
//     that class, title ignored.
//
// The passes must stay sequential; collapsing them into one weighted score
// changes which node wins when a titled node of the wrong class coexists
// with an untitled node of the right class. Returns "" when nothing matches.
func (t *Graph) DiscoverNode(titleKeywords []string, classType string) string {
	for _, node := range t.Nodes {
		title := strings.ToLower(node.Title)
		if title == "" {
			continue
		}
		for _, kw := range titleKeywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				if classType == "" || node.Type == classType {
					return strconv.Itoa(node.ID)
				}
				break
			}
		}
	}

	if classType != "" {
		for _, node := range t.Nodes {
			if node.Type == classType {
				return strconv.Itoa(node.ID)
			}
		}
	}

	return ""
}

// DiscoverRoles resolves all workflow roles for a document. Explicit
// overrides always win; auto-discovery needs the graph form, since the flat
// form carries no titles. Flat-form documents therefore yield only the
// overridden roles.
func (d *Document) DiscoverRoles(overrides Roles) Roles {
	retv := Roles{}
	if d.Graph != nil {
		retv.PositivePrompt = d.Graph.DiscoverNode([]string{"positive"}, ClassCLIPTextEncode)
		retv.NegativePrompt = d.Graph.DiscoverNode([]string{"negative"}, ClassCLIPTextEncode)
		retv.Filepath = d.Graph.DiscoverNode([]string{"path", "savepath"}, ClassTextString)
		retv.Output = d.Graph.DiscoverNode([]string{"save", "saveimage"}, ClassImageSave)
		retv.LatentImage = d.Graph.DiscoverNode([]string{"latent", "empty latent"}, ClassEmptyLatentImage)
	}

	if overrides.PositivePrompt != "" {
		retv.PositivePrompt = overrides.PositivePrompt
	}
	if overrides.NegativePrompt != "" {
		retv.NegativePrompt = overrides.NegativePrompt
	}
	if overrides.Filepath != "" {
		retv.Filepath = overrides.Filepath
	}
	if overrides.Output != "" {
		retv.Output = overrides.Output
	}
	if overrides.LatentImage != "" {
		retv.LatentImage = overrides.LatentImage
	}

	return retv
}
