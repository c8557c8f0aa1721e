package graphapi

import (
	"encoding/json"
	"errors"
)

// Graph is the editor-native workflow serialization: an ordered node list
// plus a flat link list.
type Graph struct {
	Nodes      []*GraphNode       `json:"nodes"`
	Links      []*Link            `json:"links"`
	LastNodeID int                `json:"last_node_id"`
	LastLinkID int                `json:"last_link_id"`
	Version    float32            `json:"version"`
	NodesByID  map[int]*GraphNode `json:"-"`
	LinksByID  map[int]*Link      `json:"-"`
}

// GraphNode is one unit of work in the editor graph. Only the fields the
// normalizer and role discovery need are retained.
type GraphNode struct {
	ID           int           `json:"id"`
	Type         string        `json:"type"`
	Title        string        `json:"title"`
	Order        int           `json:"order"`
	Mode         int           `json:"mode"`
	WidgetValues []interface{} `json:"widgets_values"`
	Inputs       []Slot        `json:"inputs,omitempty"`
	Outputs      []Slot        `json:"outputs,omitempty"`
}

// Slot is a connection point on a node. An input slot carries either a link
// id (wired to another node's output) or a widget (an inline literal whose
// value lives in the node's widgets_values).
type Slot struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Link      *int    `json:"link,omitempty"`  // input slots; nil when unlinked
	Links     *[]int  `json:"links,omitempty"` // output slots
	Widget    *Widget `json:"widget,omitempty"`
	SlotIndex *int    `json:"slot_index,omitempty"`
}

// Widget marks an input slot whose value is set inline in the editor
type Widget struct {
	Name   *string      `json:"name"`
	Config *interface{} `json:"config"`
}

// Link connects one node's output slot to another node's input slot.
// Serialized as a 6-tuple [id, origin_id, origin_slot, target_id,
// target_slot, type].
type Link struct {
	ID         int
	OriginID   int
	OriginSlot int
	TargetID   int
	TargetSlot int
	Type       string
}

func (l *Link) UnmarshalJSON(b []byte) error {
	var tmp []interface{}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	if len(tmp) != 6 {
		return errors.New("wrong number of fields in link array")
	}

	l.ID = int(tmp[0].(float64))
	l.OriginID = int(tmp[1].(float64))
	l.OriginSlot = int(tmp[2].(float64))
	l.TargetID = int(tmp[3].(float64))
	l.TargetSlot = int(tmp[4].(float64))
	l.Type, _ = tmp[5].(string)

	return nil
}

func (l *Link) MarshalJSON() ([]byte, error) {
	tmp := []interface{}{
		l.ID,
		l.OriginID,
		l.OriginSlot,
		l.TargetID,
		l.TargetSlot,
		l.Type,
	}
	return json.Marshal(tmp)
}

func (t *Graph) UnmarshalJSON(b []byte) error {
	// Alias type avoids a recursive call to UnmarshalJSON
	type Alias Graph

	alias := &Alias{}
	if err := json.Unmarshal(b, alias); err != nil {
		return err
	}

	t.Nodes = alias.Nodes
	t.Links = alias.Links
	t.LastNodeID = alias.LastNodeID
	t.LastLinkID = alias.LastLinkID
	t.Version = alias.Version
	t.NodesByID = make(map[int]*GraphNode)
	t.LinksByID = make(map[int]*Link)

	for _, node := range t.Nodes {
		t.NodesByID[node.ID] = node
	}
	for _, link := range t.Links {
		t.LinksByID[link.ID] = link
	}

	return nil
}

func (t *Graph) GetLinkById(id int) *Link {
	val, ok := t.LinksByID[id]
	if ok {
		return val
	}
	return nil
}

func (t *Graph) GetNodeById(id int) *GraphNode {
	val, ok := t.NodesByID[id]
	if ok {
		return val
	}
	return nil
}

// GetNodesWithType retrieves all nodes in the graph that match a node type.
func (t *Graph) GetNodesWithType(nodeType string) []*GraphNode {
	retv := make([]*GraphNode, 0)
	for _, n := range t.Nodes {
		if n.Type == nodeType {
			retv = append(retv, n)
		}
	}
	return retv
}

// GetNodesWithTitle retrieves all nodes in the graph with an exact title.
func (t *Graph) GetNodesWithTitle(title string) []*GraphNode {
	retv := make([]*GraphNode, 0)
	for _, n := range t.Nodes {
		if n.Title == title {
			retv = append(retv, n)
		}
	}
	return retv
}
