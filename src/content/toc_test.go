package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "getting-started", Slugify("Getting Started"))
	assert.Equal(t, "a-b-c", Slugify("  a -- b__ c  "))
	assert.Equal(t, "v2-0-patch-notes", Slugify("v2.0 Patch Notes"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestExtractHeadingsFromMarkdown(t *testing.T) {
	t.Run("basic document", func(t *testing.T) {
		headings := ExtractHeadingsFromMarkdown("# Intro\n\nSome text\n\n## Getting Started")
		require.Len(t, headings, 2)
		assert.Equal(t, TOCHeading{ID: "intro", Text: "Intro", Level: 1}, headings[0])
		assert.Equal(t, TOCHeading{ID: "getting-started", Text: "Getting Started", Level: 2}, headings[1])
	})

	t.Run("levels deeper than 3 are ignored", func(t *testing.T) {
		headings := ExtractHeadingsFromMarkdown("# One\n\n#### Four\n\n### Three")
		require.Len(t, headings, 2)
		assert.Equal(t, 1, headings[0].Level)
		assert.Equal(t, 3, headings[1].Level)
	})

	t.Run("display text keeps emphasis, slug does not", func(t *testing.T) {
		headings := ExtractHeadingsFromMarkdown("## Getting **Started**")
		require.Len(t, headings, 1)
		assert.Equal(t, "Getting **Started**", headings[0].Text)
		assert.Equal(t, "getting-started", headings[0].ID)
	})

	t.Run("duplicate headings get numbered anchors", func(t *testing.T) {
		headings := ExtractHeadingsFromMarkdown("# Setup\n\n## Setup\n\n### Setup")
		require.Len(t, headings, 3)
		assert.Equal(t, "setup", headings[0].ID)
		assert.Equal(t, "setup-2", headings[1].ID)
		assert.Equal(t, "setup-3", headings[2].ID)
	})

	t.Run("no headings", func(t *testing.T) {
		assert.Empty(t, ExtractHeadingsFromMarkdown("just some\n\nparagraphs"))
	})
}

func TestExtractHeadingsFromDocument(t *testing.T) {
	doc := &DocNode{
		Type: NodeTypeDoc,
		Content: []DocNode{
			{Type: NodeTypeHeading, Attrs: DocAttrs{Level: 1}, Content: []DocNode{
				{Type: NodeTypeText, Text: "Intro"},
			}},
			{Type: "paragraph", Content: []DocNode{
				{Type: NodeTypeText, Text: "Some text"},
			}},
			{Type: NodeTypeHeading, Attrs: DocAttrs{Level: 2}, Content: []DocNode{
				{Type: NodeTypeText, Text: "Getting "},
				{Type: NodeTypeText, Text: "Started"},
			}},
		},
	}

	headings := ExtractHeadingsFromDocument(doc)
	require.Len(t, headings, 2)
	assert.Equal(t, TOCHeading{ID: "intro", Text: "Intro", Level: 1}, headings[0])
	assert.Equal(t, TOCHeading{ID: "getting-started", Text: "Getting Started", Level: 2}, headings[1])
}

// The two extractors must agree on anchors for semantically equivalent
// content, or in-page links generated at render time won't match the table
// of contents generated ahead of render time.
func TestExtractorAgreement(t *testing.T) {
	markdown := "# Intro\n\nSome text\n\n## Getting Started"
	tree := &DocNode{
		Type: NodeTypeDoc,
		Content: []DocNode{
			{Type: NodeTypeHeading, Attrs: DocAttrs{Level: 1}, Content: []DocNode{
				{Type: NodeTypeText, Text: "Intro"},
			}},
			{Type: NodeTypeHeading, Attrs: DocAttrs{Level: 2}, Content: []DocNode{
				{Type: NodeTypeText, Text: "Getting Started"},
			}},
		},
	}

	fromMarkdown := ExtractHeadingsFromMarkdown(markdown)
	fromTree := ExtractHeadingsFromDocument(tree)
	assert.Equal(t, fromTree, fromMarkdown)
}

func TestExtractionIsIdempotent(t *testing.T) {
	markdown := "# Setup\n\n## Setup\n\n## Usage"
	first := ExtractHeadingsFromMarkdown(markdown)
	second := ExtractHeadingsFromMarkdown(markdown)
	assert.Equal(t, first, second)
}

func TestTOCStates(t *testing.T) {
	assert.Equal(t, TOCStatusPending, PendingTOC().Status)
	assert.Equal(t, TOCStatusFailed, FailedTOC().Status)

	ready := ReadyTOC([]TOCHeading{{ID: "intro", Text: "Intro", Level: 1}})
	assert.Equal(t, TOCStatusReady, ready.Status)
	assert.Len(t, ready.Headings, 1)
}
