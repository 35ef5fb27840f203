package radata

import (
	"context"
	"sort"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
)

func FetchSeries(ctx context.Context, dbConn db.ConnOrTx, seriesID int) (*models.ArticleSeries, error) {
	series, err := db.QueryOne[models.ArticleSeries](ctx, dbConn,
		`SELECT $columns FROM article_series WHERE id = $1`,
		seriesID,
	)
	if err != nil {
		return nil, err
	}
	return series, nil
}

func FetchSeriesBySlug(ctx context.Context, dbConn db.ConnOrTx, slug string) (*models.ArticleSeries, error) {
	series, err := db.QueryOne[models.ArticleSeries](ctx, dbConn,
		`SELECT $columns FROM article_series WHERE slug = $1`,
		slug,
	)
	if err != nil {
		return nil, err
	}
	return series, nil
}

func FetchAllSeries(ctx context.Context, dbConn db.ConnOrTx) ([]*models.ArticleSeries, error) {
	series, err := db.Query[models.ArticleSeries](ctx, dbConn,
		`SELECT $columns FROM article_series ORDER BY title ASC`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch series")
	}
	return series, nil
}

type SeriesEntry struct {
	Article models.Article
	// 1-based position within the series, by series order.
	Position int
	Current  bool
}

// Where one article sits within its series. Derived entirely from the
// articles' series order at read time; there is no stored linked list to
// fall out of sync.
type SeriesNavigation struct {
	Series  models.ArticleSeries
	Entries []SeriesEntry
	Prev    *models.Article
	Next    *models.Article
}

// Returns nil (and no error) when the article is not part of a series.
// Unpublished articles in the series are invisible here except in preview
// mode, so the prev/next links never point at drafts.
func FetchSeriesNavigation(
	ctx context.Context,
	dbConn db.ConnOrTx,
	article *models.Article,
	includeUnpublished bool,
) (*SeriesNavigation, error) {
	if article.SeriesID == nil {
		return nil, nil
	}

	series, err := FetchSeries(ctx, dbConn, *article.SeriesID)
	if err != nil {
		return nil, oops.New(err, "failed to fetch series for navigation")
	}

	entries, err := FetchArticles(ctx, dbConn, ArticlesQuery{
		SeriesIDs:          []int{*article.SeriesID},
		IncludeUnpublished: includeUnpublished,
	})
	if err != nil {
		return nil, err
	}

	siblings := make([]models.Article, len(entries))
	for i, entry := range entries {
		siblings[i] = entry.Article
	}

	nav := buildSeriesNavigation(*series, siblings, article.ID)
	return &nav, nil
}

func buildSeriesNavigation(
	series models.ArticleSeries,
	siblings []models.Article,
	currentArticleID int,
) SeriesNavigation {
	sort.SliceStable(siblings, func(i, j int) bool {
		oi, oj := 0, 0
		if siblings[i].SeriesOrder != nil {
			oi = *siblings[i].SeriesOrder
		}
		if siblings[j].SeriesOrder != nil {
			oj = *siblings[j].SeriesOrder
		}
		return oi < oj
	})

	nav := SeriesNavigation{Series: series}
	currentIdx := -1
	for i, sibling := range siblings {
		entry := SeriesEntry{
			Article:  sibling,
			Position: i + 1,
			Current:  sibling.ID == currentArticleID,
		}
		if entry.Current {
			currentIdx = i
		}
		nav.Entries = append(nav.Entries, entry)
	}

	if currentIdx > 0 {
		nav.Prev = &nav.Entries[currentIdx-1].Article
	}
	if currentIdx >= 0 && currentIdx < len(nav.Entries)-1 {
		nav.Next = &nav.Entries[currentIdx+1].Article
	}

	return nav
}
