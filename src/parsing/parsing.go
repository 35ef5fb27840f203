package parsing

import (
	"bytes"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Used for generating the final HTML for an article body.
var ArticleMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlightExtension,
	),
)

var highlightExtension = highlighting.NewHighlighting(
	highlighting.WithFormatOptions(RAChromaOptions...),
	highlighting.WithWrapperRenderer(func(w util.BufWriter, context highlighting.CodeBlockContext, entering bool) {
		if entering {
			w.WriteString(`<pre class="ra-code">`)
		} else {
			w.WriteString(`</pre>`)
		}
	}),
)

func ParseMarkdown(source string, md goldmark.Markdown) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		panic(err)
	}

	return buf.String()
}

// A single heading pulled out of a markdown document. Display keeps any
// inline emphasis markers from the source; Plain has them stripped.
type Heading struct {
	Level   int
	Display string
	Plain   string
}

// Walks the markdown AST and returns all headings of level 1-3 in document
// order. Deeper levels are intentionally ignored; they are too fine grained
// for navigation. Since this goes through the markdown parser, setext
// headings (underlined with = or -) count too, not just the # kind.
func ExtractHeadings(source string) []Heading {
	src := []byte(source)
	doc := ArticleMarkdown.Parser().Parse(text.NewReader(src))

	var headings []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			if h.Level > 3 {
				return ast.WalkSkipChildren, nil
			}

			var display strings.Builder
			lines := h.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				display.Write(seg.Value(src))
			}

			headings = append(headings, Heading{
				Level:   h.Level,
				Display: strings.TrimSpace(display.String()),
				Plain:   strings.TrimSpace(string(h.Text(src))),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return headings
}

// Returns only the text content of a markdown document, with all markup
// stripped. Used for word counts and teaser previews.
func PlainText(source string) string {
	src := []byte(source)
	doc := ArticleMarkdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString(" ")
			}
		}
		if _, ok := n.(*ast.Paragraph); ok && b.Len() > 0 {
			b.WriteString(" ")
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

const wordsPerMinute = 230

// Estimated minutes to read a body with the given word count. Never less
// than one minute.
func EstimateReadingTime(wordCount int) int {
	minutes := int(math.Ceil(float64(wordCount) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func WordCount(plain string) int {
	return len(strings.Fields(plain))
}
