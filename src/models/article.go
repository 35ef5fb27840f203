package models

import (
	"time"

	"github.com/google/uuid"
)

type ArticleVisibility string

const (
	ArticleVisibilityPublic      ArticleVisibility = "public"
	ArticleVisibilityMembersOnly ArticleVisibility = "members_only"
)

type Article struct {
	ID   int    `db:"id"`
	Slug string `db:"slug"`

	Title string `db:"title"`
	Perex string `db:"perex"`
	Topic string `db:"topic"`

	SeriesID    *int `db:"series_id"`
	SeriesOrder *int `db:"series_order"`

	HeroAssetID *uuid.UUID `db:"hero_asset_id"`

	Visibility ArticleVisibility `db:"visibility"`

	// Set once, on the first transition to published, and never cleared.
	PublishedAt *time.Time `db:"published_at"`

	// Always at least 1, recomputed from the body word count on every
	// content write.
	ReadingTime int `db:"reading_time"`

	// The version currently visible to the public. The newest version may be
	// a draft that only preview mode can see.
	PublishedVersionID *int `db:"published_version_id"`

	// Non-db fields, to be filled in by fetch helpers
	HeroAsset *Asset
	Games     []string
}

func (a *Article) IsPublished() bool {
	return a.PublishedAt != nil && a.PublishedVersionID != nil
}

// One snapshot of an article's content. Exactly one of RichText and
// WikiDocumentID must be set; RichText holds the CMS document tree as JSON,
// WikiDocumentID references a markdown document on the external wiki.
type ArticleVersion struct {
	ID        int `db:"id"`
	ArticleID int `db:"article_id"`

	RichText       *string `db:"rich_text"`
	WikiDocumentID *string `db:"wiki_document_id"`

	Date time.Time `db:"date"`
}

type ArticleSeries struct {
	ID          int    `db:"id"`
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Description string `db:"description"`
}
