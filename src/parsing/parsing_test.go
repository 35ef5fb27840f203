package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeadings(t *testing.T) {
	source := `# Top *level*

intro text

## Section one

body

### Detail

#### Too deep

## Section two
`
	headings := ExtractHeadings(source)

	assert.Equal(t, []Heading{
		{Level: 1, Display: "Top *level*", Plain: "Top level"},
		{Level: 2, Display: "Section one", Plain: "Section one"},
		{Level: 3, Display: "Detail", Plain: "Detail"},
		{Level: 2, Display: "Section two", Plain: "Section two"},
	}, headings)
}

func TestExtractHeadingsSetext(t *testing.T) {
	source := "Underlined title\n====\n\nSubsection\n----\n"
	headings := ExtractHeadings(source)

	assert.Equal(t, []Heading{
		{Level: 1, Display: "Underlined title", Plain: "Underlined title"},
		{Level: 2, Display: "Subsection", Plain: "Subsection"},
	}, headings)
}

func TestExtractHeadingsEmpty(t *testing.T) {
	assert.Empty(t, ExtractHeadings("just a paragraph, no headings"))
	assert.Empty(t, ExtractHeadings(""))
}

func TestPlainText(t *testing.T) {
	plain := PlainText("# Hello\n\nSome *emphasized* text with [a link](https://example.com).\n\nAnother paragraph.")
	assert.Contains(t, plain, "Hello")
	assert.Contains(t, plain, "Some emphasized text with a link.")
	assert.Contains(t, plain, "Another paragraph.")
	assert.NotContains(t, plain, "*")
	assert.NotContains(t, plain, "https://example.com")
}

func TestEstimateReadingTime(t *testing.T) {
	assert.Equal(t, 1, EstimateReadingTime(0))
	assert.Equal(t, 1, EstimateReadingTime(1))
	assert.Equal(t, 1, EstimateReadingTime(230))
	assert.Equal(t, 2, EstimateReadingTime(231))
	assert.Equal(t, 5, EstimateReadingTime(230*5))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 4, WordCount("four words in here"))
}
