package website

import (
	"errors"
	"net/http"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/content"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/parsing"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/radata"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/raurl"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/wiki"
)

var wikiClient = wiki.NewClient()

// The article payload all listing endpoints share. Body content never
// appears here; listings always show metadata only.
type ArticleListEntry struct {
	Slug        string     `json:"slug"`
	Url         string     `json:"url"`
	Title       string     `json:"title"`
	Perex       string     `json:"perex"`
	Topic       string     `json:"topic,omitempty"`
	Games       []string   `json:"games,omitempty"`
	HeroUrl     string     `json:"heroUrl,omitempty"`
	Visibility  string     `json:"visibility"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ReadingTime int        `json:"readingTime"`

	// Only present for logged-in members.
	Progress   *ProgressPayload `json:"progress,omitempty"`
	Bookmarked *bool            `json:"bookmarked,omitempty"`
}

type ProgressPayload struct {
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
	TimeSpent int     `json:"timeSpent"`
}

func makeArticleListEntry(a *radata.ArticleAndStuff) ArticleListEntry {
	entry := ArticleListEntry{
		Slug:        a.Article.Slug,
		Url:         raurl.BuildArticle(a.Article.Slug),
		Title:       a.Article.Title,
		Perex:       a.Article.Perex,
		Topic:       a.Article.Topic,
		Games:       a.Games,
		Visibility:  string(a.Article.Visibility),
		PublishedAt: a.Article.PublishedAt,
		ReadingTime: a.Article.ReadingTime,
	}
	if a.HeroAsset != nil {
		entry.HeroUrl = raurl.BuildAssetUrl(a.HeroAsset.S3Key)
	}
	return entry
}

func makeProgressPayload(p *models.ReadProgress) *ProgressPayload {
	if p == nil {
		return nil
	}
	return &ProgressPayload{
		Progress:  p.Progress,
		Completed: p.Completed,
		TimeSpent: p.TimeSpent,
	}
}

func ArticleIndex(c *RequestContext) ResponseData {
	q := radata.ArticlesQuery{
		IncludeUnpublished: c.PreviewMode,
		OrderBy:            "published_at DESC NULLS LAST",
	}
	if topic := c.Req.URL.Query().Get("topic"); topic != "" {
		q.Topics = []string{topic}
	}

	articles, err := radata.FetchArticles(c, c.Conn, q)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var progressByArticle map[int]*models.ReadProgress
	if c.CurrentMember != nil {
		articleIDs := make([]int, len(articles))
		for i, a := range articles {
			articleIDs[i] = a.Article.ID
		}
		progressByArticle, err = radata.FetchProgressForArticles(c, c.Conn, c.CurrentMember.ID, articleIDs)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	}

	entries := make([]ArticleListEntry, 0, len(articles))
	for i := range articles {
		entry := makeArticleListEntry(&articles[i])
		if c.CurrentMember != nil {
			entry.Progress = makeProgressPayload(progressByArticle[articles[i].Article.ID])
		}
		entries = append(entries, entry)
	}

	return Json(map[string]any{"articles": entries})
}

// The full article payload. What it contains depends on the visibility
// decision: a denied viewer never reaches this point, a teaser viewer gets
// metadata with no body, and a full viewer gets the body and the table of
// contents.
type ArticleDetail struct {
	ArticleListEntry

	Locked bool `json:"locked"`

	// Absent on teasers.
	Body   *ArticleBody      `json:"body,omitempty"`
	TOC    *content.TOC      `json:"toc,omitempty"`
	Series *SeriesNavPayload `json:"series,omitempty"`
}

type ArticleBody struct {
	// Exactly one of these is set.
	Document *content.DocNode `json:"document,omitempty"`
	Html     string           `json:"html,omitempty"`

	// True when an externally hosted body could not be fetched. Document and
	// Html are both absent in that case.
	Unavailable bool `json:"unavailable,omitempty"`
}

func Article(c *RequestContext) ResponseData {
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

	viewer := content.Viewer{
		IsPreviewMode: c.PreviewMode,
		Member:        c.CurrentMember,
	}

	detail := ArticleDetail{ArticleListEntry: makeArticleListEntry(&a)}

	switch content.ResolveAccess(&a.Article, viewer) {
	case content.AccessDenied:
		return FourOhFour(c)
	case content.AccessTeaser:
		detail.Locked = true
	case content.AccessFull:
		body, toc, errRes := resolveArticleBody(c, &a.Article)
		if errRes != nil {
			return *errRes
		}
		detail.Body = body
		detail.TOC = &toc
	}

	if c.CurrentMember != nil {
		progress, err := radata.FetchProgress(c, c.Conn, c.CurrentMember.ID, a.Article.ID)
		if err != nil && !errors.Is(err, db.NotFound) {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		detail.Progress = makeProgressPayload(progress)

		bookmarked, err := radata.IsBookmarked(c, c.Conn, c.CurrentMember.ID, a.Article.ID)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
		detail.Bookmarked = &bookmarked
	}

	nav, err := radata.FetchSeriesNavigation(c, c.Conn, &a.Article, c.PreviewMode)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if nav != nil {
		payload := makeSeriesNavPayload(nav)
		detail.Series = &payload
	}

	return Json(detail)
}

// Resolves an article's content down to a response-ready body and table of
// contents. A wiki outage degrades to an unavailable body with a failed
// table of contents instead of an error response.
func resolveArticleBody(c *RequestContext, article *models.Article) (*ArticleBody, content.TOC, *ResponseData) {
	version, err := radata.FetchVersionForArticle(c, c.Conn, article, c.PreviewMode)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			res := FourOhFour(c)
			return nil, content.TOC{}, &res
		}
		res := c.ErrorResponse(http.StatusInternalServerError, err)
		return nil, content.TOC{}, &res
	}

	source, err := content.ResolveSource(version)
	if err != nil {
		res := c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "article content failed integrity checks"))
		return nil, content.TOC{}, &res
	}

	switch source := source.(type) {
	case content.CMSSource:
		return &ArticleBody{Document: source.Document},
			content.ReadyTOC(content.ExtractHeadingsFromDocument(source.Document)),
			nil
	case content.ExternalSource:
		doc, err := wikiClient.GetDocument(c, source.DocumentID)
		if err != nil {
			if errors.Is(err, wiki.NotFound) {
				c.Logger.Error().Str("documentId", source.DocumentID).Msg("article points at a missing wiki document")
			} else {
				c.Logger.Error().Err(err).Msg("failed to fetch wiki document")
			}
			return &ArticleBody{Unavailable: true}, content.FailedTOC(), nil
		}
		return &ArticleBody{Html: parsing.ParseMarkdown(doc.Markdown, parsing.ArticleMarkdown)},
			content.ReadyTOC(content.ExtractHeadingsFromMarkdown(doc.Markdown)),
			nil
	default:
		panic("unknown content source type")
	}
}
