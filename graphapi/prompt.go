package graphapi

import (
	"encoding/json"
	"fmt"
	"os"
)

// Prompt is the flat workflow representation the ComfyUI backend accepts for
// execution: a mapping of node id to its class and input values.
type Prompt map[string]*PromptNode

type PromptNode struct {
	// Inputs values are one of:
	//	float64 / bool / string literals
	//	[]interface{} where [0] is the source node id and [1] the output slot
	ClassType string                 `json:"class_type"`
	Inputs    map[string]interface{} `json:"inputs"`
}

// GetInput returns the named input value, or nil when absent.
func (n *PromptNode) GetInput(name string) interface{} {
	if n == nil || n.Inputs == nil {
		return nil
	}
	return n.Inputs[name]
}

// SetInput assigns an input value, allocating the map on first use.
func (n *PromptNode) SetInput(name string, value interface{}) {
	if n.Inputs == nil {
		n.Inputs = make(map[string]interface{})
	}
	n.Inputs[name] = value
}

// AsNodeRef reports whether an input value is a reference to another node's
// output, returning the source node id and output slot index when it is.
// References arrive from JSON as a 2-element array whose first element is a
// node id (string or number) and second a slot index.
func AsNodeRef(value interface{}) (string, int, bool) {
	arr, ok := value.([]interface{})
	if !ok || len(arr) != 2 {
		return "", 0, false
	}

	var id string
	switch v := arr[0].(type) {
	case string:
		id = v
	case float64:
		id = fmt.Sprintf("%d", int(v))
	default:
		return "", 0, false
	}

	slot, ok := arr[1].(float64)
	if !ok {
		// already a native int when the reference was built in-process
		s, ok := arr[1].(int)
		if !ok {
			return "", 0, false
		}
		return id, s, true
	}
	return id, int(slot), true
}

// Clone deep-copies the prompt so a generation call can fill its own working
// copy without mutating the loaded template.
func (p Prompt) Clone() Prompt {
	data, err := json.Marshal(p)
	if err != nil {
		// a prompt round-trips by construction; this is unreachable in practice
		return nil
	}
	retv := Prompt{}
	if err := json.Unmarshal(data, &retv); err != nil {
		return nil
	}
	return retv
}

// Document is a workflow as loaded from disk, in either serialization.
// Exactly one of Graph or API is set.
type Document struct {
	Graph *Graph
	API   Prompt
}

// IsGraphForm reports whether the document came from the editor serialization.
func (d *Document) IsGraphForm() bool {
	return d.Graph != nil
}

// ParseDocument decodes workflow JSON, detecting the serialization by the
// presence of a top-level "nodes" array.
func ParseDocument(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("workflow is not a JSON object: %w", err)
	}

	if _, ok := probe["nodes"]; ok {
		graph := &Graph{}
		if err := json.Unmarshal(data, graph); err != nil {
			return nil, fmt.Errorf("parse graph workflow: %w", err)
		}
		return &Document{Graph: graph}, nil
	}

	api := Prompt{}
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, fmt.Errorf("parse API workflow: %w", err)
	}
	return &Document{API: api}, nil
}

// ParseDocumentFile reads and parses a workflow JSON file.
func ParseDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	return ParseDocument(data)
}
