package content

import (
	"testing"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string {
	return &s
}

func TestResolveSource(t *testing.T) {
	richText := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hello"}]}]}`

	t.Run("cms rich text", func(t *testing.T) {
		source, err := ResolveSource(&models.ArticleVersion{RichText: strptr(richText)})
		require.Nil(t, err)
		cms, ok := source.(CMSSource)
		require.True(t, ok)
		assert.Equal(t, "hello", cms.Document.PlainText())
	})

	t.Run("external wiki document", func(t *testing.T) {
		source, err := ResolveSource(&models.ArticleVersion{WikiDocumentID: strptr("doc-123")})
		require.Nil(t, err)
		external, ok := source.(ExternalSource)
		require.True(t, ok)
		assert.Equal(t, "doc-123", external.DocumentID)
	})

	t.Run("both populated is corruption", func(t *testing.T) {
		_, err := ResolveSource(&models.ArticleVersion{
			ID:             42,
			RichText:       strptr(richText),
			WikiDocumentID: strptr("doc-123"),
		})
		var integrityErr *ContentIntegrityError
		require.ErrorAs(t, err, &integrityErr)
		assert.Equal(t, 42, integrityErr.VersionID)
	})

	t.Run("neither populated is corruption", func(t *testing.T) {
		_, err := ResolveSource(&models.ArticleVersion{})
		var integrityErr *ContentIntegrityError
		assert.ErrorAs(t, err, &integrityErr)
	})

	t.Run("empty wiki document id counts as absent", func(t *testing.T) {
		_, err := ResolveSource(&models.ArticleVersion{WikiDocumentID: strptr("")})
		var integrityErr *ContentIntegrityError
		assert.ErrorAs(t, err, &integrityErr)
	})

	t.Run("unparseable rich text is corruption", func(t *testing.T) {
		_, err := ResolveSource(&models.ArticleVersion{RichText: strptr("{not json")})
		var integrityErr *ContentIntegrityError
		assert.ErrorAs(t, err, &integrityErr)
	})
}
