package graphapi

import "strconv"

// ToPrompt returns the flat submission form of the document. A document
// already in API form passes through unchanged, so the conversion is
// idempotent.
func (d *Document) ToPrompt() Prompt {
	if d.Graph == nil {
		return d.API
	}
	return d.Graph.ToPrompt()
}

// ToPrompt converts the editor graph to the flat API form. Each node's input
// slots are walked in declaration order: widget-flagged slots consume the
// node's widget values through a per-node cursor, linked slots become node
// references resolved against the link list. Slots with neither stay absent,
// and running out of widget values is not an error.
func (t *Graph) ToPrompt() Prompt {
	retv := Prompt{}
	for _, node := range t.Nodes {
		inputs := make(map[string]interface{})
		widx := 0
		for _, slot := range node.Inputs {
			if slot.Widget != nil {
				if widx < len(node.WidgetValues) {
					inputs[slot.Name] = node.WidgetValues[widx]
					widx++
				}
			} else if slot.Link != nil {
				if link := t.GetLinkById(*slot.Link); link != nil {
					inputs[slot.Name] = []interface{}{
						strconv.Itoa(link.OriginID),
						link.OriginSlot,
					}
				}
			}
		}

		retv[strconv.Itoa(node.ID)] = &PromptNode{
			ClassType: node.Type,
			Inputs:    inputs,
		}
	}
	return retv
}
