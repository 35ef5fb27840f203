package radata

import (
	"context"
	"fmt"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/content"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/parsing"
)

type ArticlesQuery struct {
	// If empty, all articles.
	ArticleIDs []int
	Slugs      []string
	SeriesIDs  []int
	Topics     []string

	// By default you only get articles with a published version. Preview
	// mode and the admin tools want everything.
	IncludeUnpublished bool

	Limit, Offset int // if empty, no pagination
	OrderBy       string
}

type ArticleAndStuff struct {
	Article   models.Article
	HeroAsset *models.Asset `db:"hero_asset"`
	Series    *models.ArticleSeries
	Games     []string
}

// ORDER BY has to go on the outside of the subselect so it can refer to the
// mapped columns by their bare names, and LIMIT has to come after it or the
// database picks N arbitrary rows before sorting them.
func articlesQuery(q ArticlesQuery) *db.QueryBuilder {
	var qb db.QueryBuilder
	if len(q.OrderBy) > 0 {
		qb.Add(`SELECT * FROM (`)
	}
	qb.Add(`
		SELECT $columns
		FROM
			article
			LEFT JOIN asset AS hero_asset ON hero_asset.id = article.hero_asset_id
			LEFT JOIN article_series AS series ON series.id = article.series_id
		WHERE
			TRUE
	`)
	if !q.IncludeUnpublished {
		qb.Add(`AND article.published_version_id IS NOT NULL`)
	}
	if len(q.ArticleIDs) > 0 {
		qb.Add(`AND article.id = ANY ($?)`, q.ArticleIDs)
	}
	if len(q.Slugs) > 0 {
		qb.Add(`AND article.slug = ANY ($?)`, q.Slugs)
	}
	if len(q.SeriesIDs) > 0 {
		qb.Add(`AND article.series_id = ANY ($?)`, q.SeriesIDs)
	}
	if len(q.Topics) > 0 {
		qb.Add(`AND article.topic = ANY ($?)`, q.Topics)
	}
	if len(q.OrderBy) > 0 {
		qb.Add(fmt.Sprintf(`) q ORDER BY %s`, q.OrderBy))
	}
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}
	return &qb
}

func FetchArticles(
	ctx context.Context,
	dbConn db.ConnOrTx,
	q ArticlesQuery,
) ([]ArticleAndStuff, error) {
	type articleRow struct {
		Article   models.Article        `db:"article"`
		HeroAsset *models.Asset         `db:"hero_asset"`
		Series    *models.ArticleSeries `db:"series"`
	}

	qb := articlesQuery(q)
	rows, err := db.Query[articleRow](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch articles")
	}

	articleIDs := make([]int, len(rows))
	for i, row := range rows {
		articleIDs[i] = row.Article.ID
	}
	games, err := fetchGamesForArticles(ctx, dbConn, articleIDs)
	if err != nil {
		return nil, err
	}

	res := make([]ArticleAndStuff, len(rows))
	for i, row := range rows {
		res[i] = ArticleAndStuff{
			Article:   row.Article,
			HeroAsset: row.HeroAsset,
			Series:    row.Series,
			Games:     games[row.Article.ID],
		}
		res[i].Article.HeroAsset = row.HeroAsset
		res[i].Article.Games = games[row.Article.ID]
	}
	return res, nil
}

// Fetches a single article. Returns db.NotFound if no article matched the
// query.
func FetchArticle(
	ctx context.Context,
	dbConn db.ConnOrTx,
	q ArticlesQuery,
) (ArticleAndStuff, error) {
	q.Limit = 1
	q.Offset = 0

	articles, err := FetchArticles(ctx, dbConn, q)
	if err != nil {
		return ArticleAndStuff{}, err
	}
	if len(articles) == 0 {
		return ArticleAndStuff{}, db.NotFound
	}
	return articles[0], nil
}

func FetchArticleBySlug(
	ctx context.Context,
	dbConn db.ConnOrTx,
	slug string,
	q ArticlesQuery,
) (ArticleAndStuff, error) {
	q.Slugs = []string{slug}
	return FetchArticle(ctx, dbConn, q)
}

func fetchGamesForArticles(
	ctx context.Context,
	dbConn db.ConnOrTx,
	articleIDs []int,
) (map[int][]string, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}

	type gameRow struct {
		ArticleID int    `db:"article_id"`
		Game      string `db:"game"`
	}
	rows, err := db.Query[gameRow](ctx, dbConn,
		`
		SELECT $columns
		FROM article_game
		WHERE article_id = ANY ($1)
		ORDER BY game ASC
		`,
		articleIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch article games")
	}

	games := make(map[int][]string)
	for _, row := range rows {
		games[row.ArticleID] = append(games[row.ArticleID], row.Game)
	}
	return games, nil
}

// Fetches the version of an article's content that the given request should
// render: the published version normally, or the newest version (which may
// still be a draft) in preview mode. Returns db.NotFound when the article
// has no version the viewer can see.
func FetchVersionForArticle(
	ctx context.Context,
	dbConn db.ConnOrTx,
	article *models.Article,
	preview bool,
) (*models.ArticleVersion, error) {
	if preview {
		version, err := db.QueryOne[models.ArticleVersion](ctx, dbConn,
			`
			SELECT $columns
			FROM article_version
			WHERE article_id = $1
			ORDER BY date DESC
			LIMIT 1
			`,
			article.ID,
		)
		if err != nil {
			return nil, err
		}
		return version, nil
	}

	if article.PublishedVersionID == nil {
		return nil, db.NotFound
	}
	version, err := db.QueryOne[models.ArticleVersion](ctx, dbConn,
		`SELECT $columns FROM article_version WHERE id = $1`,
		*article.PublishedVersionID,
	)
	if err != nil {
		return nil, err
	}
	return version, nil
}

type ArticleVersionInput struct {
	ArticleID      int
	RichText       *string
	WikiDocumentID *string

	// Plain text of the new content, used to recompute the article's reading
	// time. For rich text versions this may be left empty and will be derived
	// from the document itself; for wiki versions the caller must fetch the
	// markdown and pass it here.
	PlainText string

	// When true, the new version immediately becomes the published one.
	Publish bool
}

// Saves a new content version for an article. The version must carry exactly
// one content source; the article's reading time is recomputed on every
// write, published or not.
func CreateArticleVersion(
	ctx context.Context,
	dbConn db.ConnOrTx,
	input ArticleVersionInput,
) (*models.ArticleVersion, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	candidate := models.ArticleVersion{
		ArticleID:      input.ArticleID,
		RichText:       input.RichText,
		WikiDocumentID: input.WikiDocumentID,
	}
	source, err := content.ResolveSource(&candidate)
	if err != nil {
		return nil, err
	}

	plainText := input.PlainText
	if plainText == "" {
		if cms, ok := source.(content.CMSSource); ok {
			plainText = cms.Document.PlainText()
		}
	}

	now := time.Now()
	version, err := db.QueryOne[models.ArticleVersion](ctx, tx,
		`
		INSERT INTO article_version (article_id, rich_text, wiki_document_id, date)
		VALUES ($1, $2, $3, $4)
		RETURNING $columns
		`,
		input.ArticleID, input.RichText, input.WikiDocumentID, now,
	)
	if err != nil {
		return nil, oops.New(err, "failed to insert article version")
	}

	_, err = tx.Exec(ctx,
		`UPDATE article SET reading_time = $1 WHERE id = $2`,
		parsing.EstimateReadingTime(parsing.WordCount(plainText)), input.ArticleID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to update reading time")
	}

	if input.Publish {
		_, err = tx.Exec(ctx,
			`
			UPDATE article
			SET
				published_version_id = $1,
				published_at = COALESCE(published_at, $2)
			WHERE id = $3
			`,
			version.ID, now, input.ArticleID,
		)
		if err != nil {
			return nil, oops.New(err, "failed to publish article version")
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit transaction")
	}
	return version, nil
}
