package content

import (
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
)

type AccessDecision int

const (
	// Render the whole article.
	AccessFull AccessDecision = iota
	// Render public metadata (title, perex, hero image, publish date) but
	// withhold the body. Deliberate: search engines and link previews still
	// get something meaningful, and anonymous visitors get a login
	// call-to-action instead of a dead end.
	AccessTeaser
	// Render nothing.
	AccessDenied
)

func (d AccessDecision) String() string {
	switch d {
	case AccessFull:
		return "full"
	case AccessTeaser:
		return "teaser"
	case AccessDenied:
		return "denied"
	}
	return "unknown"
}

// Everything the gate needs to know about the requester. Member is nil for
// anonymous viewers and for sessions whose member record no longer resolves;
// a lookup miss must degrade to anonymous, never error.
type Viewer struct {
	// Preview is only reachable through the CMS editor's authenticated
	// iframe; the middleware that sets this flag verifies the preview
	// secret, not this gate.
	IsPreviewMode bool

	Member *models.Member
}

// Decides how much of an article this viewer gets to see. Evaluated in
// order, first match wins. Total: every combination of inputs produces
// exactly one decision and none of them panic.
func ResolveAccess(article *models.Article, viewer Viewer) AccessDecision {
	if viewer.IsPreviewMode {
		return AccessFull
	}

	if article.Visibility == models.ArticleVisibilityPublic {
		return AccessFull
	}

	if article.Visibility == models.ArticleVisibilityMembersOnly && viewer.Member != nil {
		if viewer.Member.Status == models.MemberStatusActive {
			return AccessFull
		}
		if viewer.Member.Status == models.MemberStatusBanned {
			// Banned members don't even get the teaser.
			return AccessDenied
		}
	}

	return AccessTeaser
}
