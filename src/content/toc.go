package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/parsing"
)

// One entry of an article's table of contents. The id doubles as the in-page
// anchor, so it must match whatever the render layer generates for the same
// heading - both sides go through Slugify.
type TOCHeading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type TOCStatus string

const (
	// Headings not known yet (externally hosted content still loading).
	TOCStatusPending TOCStatus = "pending"
	TOCStatusReady   TOCStatus = "ready"
	// The external document could not be fetched. Not an error; the page
	// shows a "content unavailable" state.
	TOCStatusFailed TOCStatus = "failed"
)

type TOC struct {
	Status   TOCStatus    `json:"status"`
	Headings []TOCHeading `json:"headings,omitempty"`
}

func PendingTOC() TOC {
	return TOC{Status: TOCStatusPending}
}

func ReadyTOC(headings []TOCHeading) TOC {
	return TOC{Status: TOCStatusReady, Headings: headings}
}

func FailedTOC() TOC {
	return TOC{Status: TOCStatusFailed}
}

var reNonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Turns heading text into an anchor id: lowercase, every run of characters
// outside [a-z0-9] collapses to a single hyphen, no leading or trailing
// hyphens. Both extractors and the render layer must use this exact
// algorithm or anchors break.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = reNonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

// Tracks slugs already handed out within one document so that duplicate
// headings still get unique anchors. The second occurrence gets "-2", the
// third "-3", and so on, deterministically in document order.
type slugs map[string]int

func (s slugs) claim(text string) string {
	slug := Slugify(text)
	s[slug]++
	if s[slug] > 1 {
		return fmt.Sprintf("%s-%d", slug, s[slug])
	}
	return slug
}

// Walks a rich text document tree and returns its level 1-3 headings in
// document order. A heading's text is the concatenation of all leaf text
// inside it, ignoring formatting marks. Pure; same input, same output.
func ExtractHeadingsFromDocument(doc *DocNode) []TOCHeading {
	var headings []TOCHeading
	seen := slugs{}
	collectDocHeadings(doc, seen, &headings)
	return headings
}

func collectDocHeadings(n *DocNode, seen slugs, out *[]TOCHeading) {
	if n.Type == NodeTypeHeading {
		// Headings don't nest, no need to search inside.
		if n.Attrs.Level >= 1 && n.Attrs.Level <= 3 {
			text := strings.TrimSpace(n.PlainText())
			*out = append(*out, TOCHeading{
				ID:    seen.claim(text),
				Text:  text,
				Level: n.Attrs.Level,
			})
		}
		return
	}
	for i := range n.Content {
		collectDocHeadings(&n.Content[i], seen, out)
	}
}

// Scans a markdown document for ATX headings (#, ##, ###) and returns them
// in document order. Levels deeper than 3 are ignored. The returned text
// keeps inline emphasis markers; the anchor id is derived from the
// emphasis-stripped text so it matches what the document tree extractor
// would produce for equivalent content. Pure; same input, same output.
func ExtractHeadingsFromMarkdown(source string) []TOCHeading {
	parsed := parsing.ExtractHeadings(source)

	var headings []TOCHeading
	seen := slugs{}
	for _, h := range parsed {
		headings = append(headings, TOCHeading{
			ID:    seen.claim(h.Plain),
			Text:  h.Display,
			Level: h.Level,
		})
	}
	return headings
}
