package graphapi

import "fmt"

// textStringSlots maps a "Text String" node's output slot index to the input
// holding that slot's value.
var textStringSlots = []string{"text", "text_b", "text_c", "text_d"}

// ResolveInput resolves an input value that may be a literal or a reference
// to another node's output, returning its string form.
//
// Only references into "Text String" nodes are followed: that class simply
// passes its text inputs through to its outputs, so the referenced value can
// be read without executing the graph. References to any other class, out of
// range slots, or unknown node ids resolve to the empty string. This is a
// deliberate limitation; walking arbitrary node types would require
// evaluating the workflow.
func ResolveInput(value interface{}, prompt Prompt) string {
	if id, slot, ok := AsNodeRef(value); ok {
		source, found := prompt[id]
		if !found || source == nil {
			return ""
		}
		if source.ClassType != ClassTextString {
			return ""
		}
		if slot < 0 || slot >= len(textStringSlots) {
			return ""
		}
		resolved, _ := source.GetInput(textStringSlots[slot]).(string)
		return resolved
	}

	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
