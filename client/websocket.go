package client

import (
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ProgressEvent is a single execution update from the backend's websocket.
type ProgressEvent struct {
	Type   string // "executing", "progress" or "done"
	NodeID string // node currently executing, when known
	Value  int    // progress numerator
	Max    int    // progress denominator
}

// ProgressMonitor streams execution progress for prompts submitted with this
// client's id. It is purely informational: generation completion is decided
// by polling, never by the websocket, so a dropped connection only stops the
// event feed.
type ProgressMonitor struct {
	conn   *websocket.Conn
	Events chan ProgressEvent
	logger *zap.Logger
}

// NewProgressMonitor connects to the backend's /ws endpoint with the
// client's id and starts delivering events until Close is called or the
// connection drops. The Events channel is closed on exit.
func (c *ComfyClient) NewProgressMonitor() (*ProgressMonitor, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws?clientId=" + c.clientid

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, err
	}

	retv := &ProgressMonitor{
		conn:   conn,
		Events: make(chan ProgressEvent, 16),
		logger: c.logger.Named("ws"),
	}
	go retv.readLoop()
	return retv, nil
}

// Close tears down the websocket connection; the read loop exits and closes
// the Events channel.
func (m *ProgressMonitor) Close() {
	m.conn.Close()
}

func (m *ProgressMonitor) readLoop() {
	defer close(m.Events)

	type wsMessage struct {
		Type string `json:"type"`
		Data struct {
			Node     *string `json:"node"`
			PromptID string  `json:"prompt_id"`
			Value    int     `json:"value"`
			Max      int     `json:"max"`
		} `json:"data"`
	}

	for {
		_, message, err := m.conn.ReadMessage()
		if err != nil {
			m.logger.Debug("websocket closed", zap.Error(err))
			return
		}

		msg := &wsMessage{}
		if err := json.Unmarshal(message, msg); err != nil {
			m.logger.Warn("undecodable websocket message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case "executing":
			if msg.Data.Node == nil {
				// a null node means the final node finished
				m.Events <- ProgressEvent{Type: "done"}
			} else {
				m.Events <- ProgressEvent{Type: "executing", NodeID: *msg.Data.Node}
			}
		case "progress":
			m.Events <- ProgressEvent{
				Type:  "progress",
				Value: msg.Data.Value,
				Max:   msg.Data.Max,
			}
		default:
			// status, execution_cached and friends are not interesting here
		}
	}
}
