package jira

import (
	"encoding/json"
)

// ADFNode is one node of an Atlassian Document Format tree. Jira's v3 API
// returns comment bodies in this structured rich-text format.
type ADFNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []ADFNode `json:"content,omitempty"`
}

// ExtractText reduces an ADF tree to plain text. A "text" node contributes
// its literal string, a container node concatenates the extracted text of its
// children in order, and any other node type contributes nothing. Images,
// mentions, and other rich elements are silently dropped.
func ExtractText(node ADFNode) string {
	if node.Type == "text" {
		return node.Text
	}

	if len(node.Content) > 0 {
		var out string
		for _, child := range node.Content {
			out += ExtractText(child)
		}
		return out
	}

	return ""
}

// extractBody converts a raw comment body to plain text. Bodies arrive either
// as an ADF document (API v3) or as a bare string (older deployments).
func extractBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var node ADFNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return ""
	}

	return ExtractText(node)
}
