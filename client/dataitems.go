package client

// DataOutput describes one artifact produced by an output node, as reported
// by the /history endpoint.
type DataOutput struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// NodeOutput is the per-node output bundle inside a history entry.
type NodeOutput struct {
	Images []DataOutput `json:"images"`
}

// HistoryEntry is one completed (or in-flight) prompt in the backend's
// history, keyed by prompt id in the /history/{id} response.
type HistoryEntry struct {
	Status  HistoryStatus         `json:"status"`
	Outputs map[string]NodeOutput `json:"outputs"`
}

type HistoryStatus struct {
	StatusStr string `json:"status_str"`
	Completed bool   `json:"completed"`
}

// queueResponse is the body returned by POST /prompt
type queueResponse struct {
	PromptID   string                 `json:"prompt_id"`
	Number     int                    `json:"number"`
	NodeErrors map[string]interface{} `json:"node_errors"`
}

// promptError is the error shape the backend returns for a rejected prompt
type promptError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	NodeErrors []interface{} `json:"node_errors"`
}
