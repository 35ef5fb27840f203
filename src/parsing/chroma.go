package parsing

import (
	"github.com/alecthomas/chroma/formatters/html"
)

// Syntax highlighting emits CSS classes instead of inline styles so the
// frontend's terminal theme can restyle code blocks.
var RAChromaOptions = []html.Option{
	html.WithClasses(true),
	html.TabWidth(4),
}
