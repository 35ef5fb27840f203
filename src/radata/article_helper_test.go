package radata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticlesQuery(t *testing.T) {
	t.Run("limit applies after ordering", func(t *testing.T) {
		qb := articlesQuery(ArticlesQuery{
			OrderBy: "published_at DESC NULLS LAST",
			Limit:   10,
		})
		sql := qb.String()

		orderIdx := strings.Index(sql, "ORDER BY")
		limitIdx := strings.Index(sql, "LIMIT")
		require.NotEqual(t, -1, orderIdx)
		require.NotEqual(t, -1, limitIdx)
		assert.Less(t, orderIdx, limitIdx, "LIMIT inside the ordered subselect would pick arbitrary rows")
		assert.Equal(t, []interface{}{10, 0}, qb.Args())
	})

	t.Run("no subselect without ordering", func(t *testing.T) {
		qb := articlesQuery(ArticlesQuery{Limit: 5, Offset: 5})
		sql := qb.String()

		assert.NotContains(t, sql, "SELECT * FROM (")
		assert.Contains(t, sql, "LIMIT $1 OFFSET $2")
	})

	t.Run("filters number their placeholders before pagination", func(t *testing.T) {
		qb := articlesQuery(ArticlesQuery{
			Topics:  []string{"news"},
			OrderBy: "published_at DESC NULLS LAST",
			Limit:   3,
		})

		assert.Contains(t, qb.String(), "article.topic = ANY ($1)")
		assert.Contains(t, qb.String(), "LIMIT $2 OFFSET $3")
		assert.Equal(t, []interface{}{[]string{"news"}, 3, 0}, qb.Args())
	})

	t.Run("unpublished articles are excluded by default", func(t *testing.T) {
		assert.Contains(t, articlesQuery(ArticlesQuery{}).String(), "published_version_id IS NOT NULL")
		assert.NotContains(t,
			articlesQuery(ArticlesQuery{IncludeUnpublished: true}).String(),
			"published_version_id IS NOT NULL")
	})
}
