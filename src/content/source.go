package content

import (
	"fmt"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
)

// An article body violated the "exactly one content shape" invariant. This
// should never happen through normal write paths; it means the row was
// corrupted. It is surfaced to operators and the viewer gets a generic
// failure state.
type ContentIntegrityError struct {
	VersionID int
	Reason    string
}

func (e *ContentIntegrityError) Error() string {
	return fmt.Sprintf("article version %d has corrupt content: %s", e.VersionID, e.Reason)
}

// A ContentSource is either the CMS's embedded rich text document or a
// reference to a markdown document on the external wiki. Consumers must
// switch over the concrete type; there are no other variants.
type ContentSource interface {
	isContentSource()
}

type CMSSource struct {
	Document *DocNode
}

type ExternalSource struct {
	DocumentID string
}

func (CMSSource) isContentSource()      {}
func (ExternalSource) isContentSource() {}

// Resolves which of the two content shapes an article version carries.
// Never fails for a well-formed version; zero or two populated shapes is
// data corruption and returns a ContentIntegrityError.
func ResolveSource(version *models.ArticleVersion) (ContentSource, error) {
	hasRichText := version.RichText != nil
	hasWikiDoc := version.WikiDocumentID != nil && *version.WikiDocumentID != ""

	switch {
	case hasRichText && hasWikiDoc:
		return nil, &ContentIntegrityError{
			VersionID: version.ID,
			Reason:    "both rich text and a wiki document reference are populated",
		}
	case hasRichText:
		doc, err := ParseDocument(*version.RichText)
		if err != nil {
			return nil, &ContentIntegrityError{
				VersionID: version.ID,
				Reason:    "rich text is not a valid document tree",
			}
		}
		return CMSSource{Document: doc}, nil
	case hasWikiDoc:
		return ExternalSource{DocumentID: *version.WikiDocumentID}, nil
	default:
		return nil, &ContentIntegrityError{
			VersionID: version.ID,
			Reason:    "neither rich text nor a wiki document reference is populated",
		}
	}
}
