package website

import (
	"errors"
	"net/http"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/content"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/overlay"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/parsing"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/radata"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/raurl"
)

// Liveness endpoint for the load balancer. Checks the database so a dead
// pool takes the instance out of rotation.
func HealthCheck(c *RequestContext) ResponseData {
	if err := c.Conn.Ping(c); err != nil {
		return c.ErrorResponse(http.StatusServiceUnavailable, err)
	}
	return Json(map[string]string{"status": "ok"})
}

func APIMe(c *RequestContext) ResponseData {
	stats, err := radata.FetchMemberReadingStats(c, c.Conn, c.CurrentMember.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var avatarUrl string
	if c.CurrentMember.AvatarAsset != nil {
		avatarUrl = raurl.BuildAssetUrl(c.CurrentMember.AvatarAsset.S3Key)
	}

	return Json(map[string]any{
		"username":    c.CurrentMember.Username,
		"displayName": c.CurrentMember.BestName(),
		"avatarUrl":   avatarUrl,
		"isStaff":     c.CurrentMember.IsStaff,
		"joinedAt":    c.CurrentMember.JoinedAt,
		"stats": map[string]any{
			"articlesStarted":   stats.ArticlesStarted,
			"articlesCompleted": stats.ArticlesCompleted,
			"totalTimeSpent":    stats.TotalTimeSpent,
		},
	})
}

// Fetches an article the current viewer is allowed to read the body of, for
// API endpoints that expose body-derived data. Access rules are identical to
// the article page itself.
func fetchReadableArticle(c *RequestContext) (radata.ArticleAndStuff, *ResponseData) {
	slug := c.PathParams["slug"]
	a, err := radata.FetchArticleBySlug(c, c.Conn, slug, radata.ArticlesQuery{
		IncludeUnpublished: c.PreviewMode,
	})
	if err != nil {
		if errors.Is(err, db.NotFound) {
			res := FourOhFour(c)
			return radata.ArticleAndStuff{}, &res
		}
		res := c.ErrorResponse(http.StatusInternalServerError, err)
		return radata.ArticleAndStuff{}, &res
	}

	viewer := content.Viewer{
		IsPreviewMode: c.PreviewMode,
		Member:        c.CurrentMember,
	}
	switch content.ResolveAccess(&a.Article, viewer) {
	case content.AccessDenied:
		res := FourOhFour(c)
		return radata.ArticleAndStuff{}, &res
	case content.AccessTeaser:
		res := ErrorJson(http.StatusForbidden, "members only")
		return radata.ArticleAndStuff{}, &res
	}

	return a, nil
}

// Standalone table of contents endpoint. The frontend polls this when the
// article page reported a pending or failed table of contents.
func APIArticleTOC(c *RequestContext) ResponseData {
	a, errRes := fetchReadableArticle(c)
	if errRes != nil {
		return *errRes
	}

	_, toc, bodyErrRes := resolveArticleBody(c, &a.Article)
	if bodyErrRes != nil {
		return *bodyErrRes
	}
	return Json(toc)
}

type progressReport struct {
	Progress  float64 `json:"progress"`
	TimeSpent int     `json:"timeSpent"`
}

func APIArticleProgress(c *RequestContext) ResponseData {
	a, errRes := fetchReadableArticle(c)
	if errRes != nil {
		return *errRes
	}

	var report progressReport
	if res, ok := c.ParseJsonBody(&report); !ok {
		return res
	}

	progress, err := radata.RecordProgress(c, c.Conn, c.CurrentMember.ID, a.Article.ID, report.Progress, report.TimeSpent)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	return Json(makeProgressPayload(progress))
}

func APIArticleBookmark(c *RequestContext) ResponseData {
	a, errRes := fetchReadableArticle(c)
	if errRes != nil {
		return *errRes
	}

	var err error
	bookmarked := false
	switch c.Req.Method {
	case http.MethodPost:
		err = radata.AddBookmark(c, c.Conn, c.CurrentMember.ID, a.Article.ID)
		bookmarked = true
	case http.MethodDelete:
		err = radata.RemoveBookmark(c, c.Conn, c.CurrentMember.ID, a.Article.ID)
	}
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	return Json(map[string]bool{"bookmarked": bookmarked})
}

func APIBookmarks(c *RequestContext) ResponseData {
	articles, err := radata.FetchBookmarkedArticles(c, c.Conn, c.CurrentMember.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	entries := make([]ArticleListEntry, 0, len(articles))
	for i := range articles {
		entries = append(entries, makeArticleListEntry(&articles[i]))
	}
	return Json(map[string]any{"bookmarks": entries})
}

type versionInput struct {
	RichText       *string `json:"richText"`
	WikiDocumentId *string `json:"wikiDocumentId"`
	Publish        bool    `json:"publish"`
}

// The CMS editor's write path. Saves a new content version for an article,
// optionally publishing it in the same stroke. Staff only.
func APIArticleVersionCreate(c *RequestContext) ResponseData {
	slug := c.PathParams["slug"]
	a, err := radata.FetchArticleBySlug(c, c.Conn, slug, radata.ArticlesQuery{
		IncludeUnpublished: true,
	})
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var input versionInput
	if res, ok := c.ParseJsonBody(&input); !ok {
		return res
	}

	create := radata.ArticleVersionInput{
		ArticleID:      a.Article.ID,
		RichText:       input.RichText,
		WikiDocumentID: input.WikiDocumentId,
		Publish:        input.Publish,
	}
	if input.WikiDocumentId != nil {
		// Reading time needs the actual text, which lives on the wiki.
		doc, err := wikiClient.GetDocument(c, *input.WikiDocumentId)
		if err != nil {
			return c.ErrorResponse(http.StatusBadGateway, err)
		}
		create.PlainText = parsing.PlainText(doc.Markdown)
	}

	version, err := radata.CreateArticleVersion(c, c.Conn, create)
	if err != nil {
		var integrityErr *content.ContentIntegrityError
		if errors.As(err, &integrityErr) {
			return ErrorJson(http.StatusBadRequest, integrityErr.Error())
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	return Json(map[string]any{
		"id":        version.ID,
		"date":      version.Date,
		"published": input.Publish,
	})
}

type SeriesNavPayload struct {
	Slug    string             `json:"slug"`
	Title   string             `json:"title"`
	Url     string             `json:"url"`
	Entries []SeriesNavEntry   `json:"entries"`
	Prev    *SeriesNavNeighbor `json:"prev,omitempty"`
	Next    *SeriesNavNeighbor `json:"next,omitempty"`
}

type SeriesNavEntry struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Url      string `json:"url"`
	Position int    `json:"position"`
	Current  bool   `json:"current"`
}

type SeriesNavNeighbor struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Url   string `json:"url"`
}

func makeSeriesNavPayload(nav *radata.SeriesNavigation) SeriesNavPayload {
	payload := SeriesNavPayload{
		Slug:  nav.Series.Slug,
		Title: nav.Series.Title,
		Url:   raurl.BuildSeries(nav.Series.Slug),
	}
	for _, entry := range nav.Entries {
		payload.Entries = append(payload.Entries, SeriesNavEntry{
			Slug:     entry.Article.Slug,
			Title:    entry.Article.Title,
			Url:      raurl.BuildArticle(entry.Article.Slug),
			Position: entry.Position,
			Current:  entry.Current,
		})
	}
	payload.Prev = makeSeriesNavNeighbor(nav.Prev)
	payload.Next = makeSeriesNavNeighbor(nav.Next)
	return payload
}

func makeSeriesNavNeighbor(a *models.Article) *SeriesNavNeighbor {
	if a == nil {
		return nil
	}
	return &SeriesNavNeighbor{
		Slug:  a.Slug,
		Title: a.Title,
		Url:   raurl.BuildArticle(a.Slug),
	}
}

func APISeriesNavigation(c *RequestContext) ResponseData {
	slug := c.PathParams["slug"]
	a, err := radata.FetchArticleBySlug(c, c.Conn, slug, radata.ArticlesQuery{
		IncludeUnpublished: c.PreviewMode,
	})
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return FourOhFour(c)
		}
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	nav, err := radata.FetchSeriesNavigation(c, c.Conn, &a.Article, c.PreviewMode)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if nav == nil {
		return Json(map[string]any{"series": nil})
	}
	return Json(map[string]any{"series": makeSeriesNavPayload(nav)})
}

// Echoes the overlay config resolved from the query string. The overlay
// frontend and the config UI both use this to see what a given URL actually
// means, including all the clamping and defaulting.
func APIOverlayConfig(c *RequestContext) ResponseData {
	return Json(overlay.DecodeQuery(c.Req.URL.Query()))
}

// The data feed for the OBS browser source. Always public: overlay URLs end
// up in streaming software and on stream, so they gate nothing.
func Overlay(c *RequestContext) ResponseData {
	cfg := overlay.DecodeQuery(c.Req.URL.Query())

	data := map[string]any{
		"config": cfg,
	}

	if cfg.ShowLatestArticles {
		articles, err := radata.FetchArticles(c, c.Conn, radata.ArticlesQuery{
			OrderBy: "published_at DESC NULLS LAST",
			Limit:   5,
		})
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		entries := make([]ArticleListEntry, 0, len(articles))
		for i := range articles {
			entries = append(entries, makeArticleListEntry(&articles[i]))
		}
		data["latestArticles"] = entries
	}

	if cfg.ShowMemberCount {
		count, err := radata.CountMembers(c, c.Conn)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		data["memberCount"] = count
	}

	return Json(data)
}
