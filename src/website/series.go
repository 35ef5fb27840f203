package website

import (
	"errors"
	"net/http"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/radata"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/raurl"
)

type SeriesListEntry struct {
	Slug         string `json:"slug"`
	Url          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ArticleCount int    `json:"articleCount"`
}

func SeriesIndex(c *RequestContext) ResponseData {
	allSeries, err := radata.FetchAllSeries(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	entries := make([]SeriesListEntry, 0, len(allSeries))
	for _, series := range allSeries {
		articles, err := radata.FetchArticles(c, c.Conn, radata.ArticlesQuery{
			SeriesIDs:          []int{series.ID},
			IncludeUnpublished: c.PreviewMode,
		})
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		entries = append(entries, SeriesListEntry{
			Slug:         series.Slug,
			Url:          raurl.BuildSeries(series.Slug),
			Title:        series.Title,
			Description:  series.Description,
			ArticleCount: len(articles),
		})
	}

	return Json(map[string]any{"series": entries})
}

func Series(c *RequestContext) ResponseData {
	slug := c.PathParams["slug"]
	series, err := radata.FetchSeriesBySlug(c, c.Conn, slug)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	articles, err := radata.FetchArticles(c, c.Conn, radata.ArticlesQuery{
		SeriesIDs:          []int{series.ID},
		IncludeUnpublished: c.PreviewMode,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var progressByArticle = map[int]*ProgressPayload{}
	if c.CurrentMember != nil {
		articleIDs := make([]int, len(articles))
		for i, a := range articles {
			articleIDs[i] = a.Article.ID
		}
		progress, err := radata.FetchProgressForArticles(c, c.Conn, c.CurrentMember.ID, articleIDs)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		for id, p := range progress {
			progressByArticle[id] = makeProgressPayload(p)
		}
	}

	entries := make([]ArticleListEntry, 0, len(articles))
	for i := range articles {
		entry := makeArticleListEntry(&articles[i])
		entry.Progress = progressByArticle[articles[i].Article.ID]
		entries = append(entries, entry)
	}

	return Json(map[string]any{
		"slug":        series.Slug,
		"title":       series.Title,
		"description": series.Description,
		"articles":    entries,
	})
}

func Homepage(c *RequestContext) ResponseData {
	articles, err := radata.FetchArticles(c, c.Conn, radata.ArticlesQuery{
		IncludeUnpublished: c.PreviewMode,
		OrderBy:            "published_at DESC NULLS LAST",
		Limit:              10,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	entries := make([]ArticleListEntry, 0, len(articles))
	for i := range articles {
		entries = append(entries, makeArticleListEntry(&articles[i]))
	}

	memberCount, err := radata.CountMembers(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	return Json(map[string]any{
		"latestArticles": entries,
		"memberCount":    memberCount,
	})
}
