package radata

import (
	"testing"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildSeriesNavigation(t *testing.T) {
	series := models.ArticleSeries{ID: 1, Slug: "netrunning-101", Title: "Netrunning 101"}
	order := func(n int) *int { return &n }
	siblings := []models.Article{
		{ID: 30, Slug: "part-three", SeriesID: &series.ID, SeriesOrder: order(3)},
		{ID: 10, Slug: "part-one", SeriesID: &series.ID, SeriesOrder: order(1)},
		{ID: 20, Slug: "part-two", SeriesID: &series.ID, SeriesOrder: order(2)},
	}

	t.Run("middle of the series", func(t *testing.T) {
		nav := buildSeriesNavigation(series, siblings, 20)
		assert.Len(t, nav.Entries, 3)
		assert.Equal(t, "part-one", nav.Entries[0].Article.Slug)
		assert.Equal(t, 1, nav.Entries[0].Position)
		assert.True(t, nav.Entries[1].Current)
		if assert.NotNil(t, nav.Prev) {
			assert.Equal(t, 10, nav.Prev.ID)
		}
		if assert.NotNil(t, nav.Next) {
			assert.Equal(t, 30, nav.Next.ID)
		}
	})

	t.Run("first article has no prev", func(t *testing.T) {
		nav := buildSeriesNavigation(series, siblings, 10)
		assert.Nil(t, nav.Prev)
		if assert.NotNil(t, nav.Next) {
			assert.Equal(t, 20, nav.Next.ID)
		}
	})

	t.Run("last article has no next", func(t *testing.T) {
		nav := buildSeriesNavigation(series, siblings, 30)
		if assert.NotNil(t, nav.Prev) {
			assert.Equal(t, 20, nav.Prev.ID)
		}
		assert.Nil(t, nav.Next)
	})

	t.Run("article not in the list gets no links", func(t *testing.T) {
		nav := buildSeriesNavigation(series, siblings, 999)
		assert.Len(t, nav.Entries, 3)
		assert.Nil(t, nav.Prev)
		assert.Nil(t, nav.Next)
	})

	t.Run("single article series", func(t *testing.T) {
		nav := buildSeriesNavigation(series, []models.Article{{ID: 10, SeriesOrder: order(1)}}, 10)
		assert.Nil(t, nav.Prev)
		assert.Nil(t, nav.Next)
		assert.True(t, nav.Entries[0].Current)
	})
}
