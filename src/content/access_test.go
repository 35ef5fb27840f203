package content

import (
	"fmt"
	"testing"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/stretchr/testify/assert"
)

func TestResolveAccess(t *testing.T) {
	public := &models.Article{Visibility: models.ArticleVisibilityPublic}
	membersOnly := &models.Article{Visibility: models.ArticleVisibilityMembersOnly}
	active := &models.Member{ID: 1, Status: models.MemberStatusActive}
	banned := &models.Member{ID: 2, Status: models.MemberStatusBanned}

	t.Run("public article, anonymous viewer", func(t *testing.T) {
		assert.Equal(t, AccessFull, ResolveAccess(public, Viewer{}))
	})

	t.Run("members-only article, active member", func(t *testing.T) {
		assert.Equal(t, AccessFull, ResolveAccess(membersOnly, Viewer{Member: active}))
	})

	t.Run("members-only article, banned member", func(t *testing.T) {
		assert.Equal(t, AccessDenied, ResolveAccess(membersOnly, Viewer{Member: banned}))
	})

	t.Run("members-only article, anonymous viewer", func(t *testing.T) {
		assert.Equal(t, AccessTeaser, ResolveAccess(membersOnly, Viewer{}))
	})

	t.Run("preview mode wins over everything", func(t *testing.T) {
		assert.Equal(t, AccessFull, ResolveAccess(membersOnly, Viewer{IsPreviewMode: true}))
		assert.Equal(t, AccessFull, ResolveAccess(membersOnly, Viewer{IsPreviewMode: true, Member: banned}))
	})

	t.Run("banned members still see public articles", func(t *testing.T) {
		assert.Equal(t, AccessFull, ResolveAccess(public, Viewer{Member: banned}))
	})
}

// The gate must return exactly one decision for every combination of inputs,
// without panicking - including nonsense member statuses.
func TestResolveAccessTotality(t *testing.T) {
	visibilities := []models.ArticleVisibility{
		models.ArticleVisibilityPublic,
		models.ArticleVisibilityMembersOnly,
		models.ArticleVisibility(""),
		models.ArticleVisibility("bogus"),
	}
	members := []*models.Member{
		nil,
		{ID: 1, Status: models.MemberStatusActive},
		{ID: 2, Status: models.MemberStatusBanned},
		{ID: 3, Status: models.MemberStatus("weird")},
	}

	for _, vis := range visibilities {
		for _, preview := range []bool{false, true} {
			for _, member := range members {
				name := fmt.Sprintf("%s/preview=%v/member=%v", vis, preview, member)
				t.Run(name, func(t *testing.T) {
					assert.NotPanics(t, func() {
						decision := ResolveAccess(
							&models.Article{Visibility: vis},
							Viewer{IsPreviewMode: preview, Member: member},
						)
						assert.Contains(t,
							[]AccessDecision{AccessFull, AccessTeaser, AccessDenied},
							decision,
						)
					})
				})
			}
		}
	}
}
