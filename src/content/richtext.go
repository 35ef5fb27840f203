package content

import (
	"encoding/json"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
)

// The CMS stores formatted article bodies as a tree of typed nodes. We only
// interpret the node types we care about; everything else passes through to
// the render layer untouched.
const (
	NodeTypeDoc     = "doc"
	NodeTypeHeading = "heading"
	NodeTypeText    = "text"
)

type DocNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Attrs   DocAttrs  `json:"attrs,omitempty"`
	Content []DocNode `json:"content,omitempty"`
}

type DocAttrs struct {
	Level int `json:"level,omitempty"`
}

func ParseDocument(raw string) (*DocNode, error) {
	var doc DocNode
	err := json.Unmarshal([]byte(raw), &doc)
	if err != nil {
		return nil, oops.New(err, "failed to parse rich text document")
	}
	return &doc, nil
}

// Concatenated text of all leaf text nodes under n, in document order.
// Formatting marks do not affect the result.
func (n *DocNode) PlainText() string {
	if n.Type == NodeTypeText {
		return n.Text
	}
	var text string
	for i := range n.Content {
		text += n.Content[i].PlainText()
	}
	return text
}
