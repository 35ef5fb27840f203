package migrations

import (
	"context"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(InitialSchema{})
}

type InitialSchema struct{}

func (m InitialSchema) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 6, 14, 10, 15, 0, 0, time.UTC))
}

func (m InitialSchema) Name() string {
	return "InitialSchema"
}

func (m InitialSchema) Description() string {
	return "Create the initial database schema"
}

func (m InitialSchema) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE asset (
			id UUID PRIMARY KEY,
			s3_key VARCHAR(2000) NOT NULL,
			filename VARCHAR(255) NOT NULL,
			mime_type VARCHAR(100) NOT NULL,
			width INT NOT NULL DEFAULT 0,
			height INT NOT NULL DEFAULT 0,
			size INT NOT NULL,
			uploader_id INT
		);

		CREATE TABLE member (
			id SERIAL PRIMARY KEY,
			discord_id VARCHAR(64) NOT NULL UNIQUE,
			username VARCHAR(255) NOT NULL,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			avatar_asset_id UUID REFERENCES asset (id) ON DELETE SET NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMP WITH TIME ZONE
		);

		ALTER TABLE asset
			ADD CONSTRAINT asset_uploader_id_fkey
			FOREIGN KEY (uploader_id) REFERENCES member (id) ON DELETE SET NULL;

		CREATE TABLE session (
			id VARCHAR(40) PRIMARY KEY,
			member_id INT NOT NULL REFERENCES member (id) ON DELETE CASCADE,
			csrf_token VARCHAR(30) NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE pending_login (
			id VARCHAR(40) PRIMARY KEY,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			destination_url VARCHAR(2000) NOT NULL DEFAULT ''
		);

		CREATE TABLE article_series (
			id SERIAL PRIMARY KEY,
			slug VARCHAR(255) NOT NULL UNIQUE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE article (
			id SERIAL PRIMARY KEY,
			slug VARCHAR(255) NOT NULL UNIQUE,
			title VARCHAR(255) NOT NULL,
			perex TEXT NOT NULL DEFAULT '',
			topic VARCHAR(100) NOT NULL DEFAULT '',
			series_id INT REFERENCES article_series (id) ON DELETE SET NULL,
			series_order INT,
			hero_asset_id UUID REFERENCES asset (id) ON DELETE SET NULL,
			visibility VARCHAR(20) NOT NULL DEFAULT 'public',
			published_at TIMESTAMP WITH TIME ZONE,
			reading_time INT NOT NULL DEFAULT 1,
			published_version_id INT
		);
		CREATE INDEX article_topic ON article (topic);
		CREATE INDEX article_series_id ON article (series_id);

		CREATE TABLE article_version (
			id SERIAL PRIMARY KEY,
			article_id INT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			rich_text TEXT,
			wiki_document_id VARCHAR(255),
			date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK ((rich_text IS NULL) <> (wiki_document_id IS NULL))
		);
		CREATE INDEX article_version_article_id ON article_version (article_id);

		ALTER TABLE article
			ADD CONSTRAINT article_published_version_id_fkey
			FOREIGN KEY (published_version_id) REFERENCES article_version (id) ON DELETE SET NULL;

		CREATE TABLE article_game (
			article_id INT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			game VARCHAR(100) NOT NULL,
			PRIMARY KEY (article_id, game)
		);

		CREATE TABLE read_progress (
			member_id INT NOT NULL REFERENCES member (id) ON DELETE CASCADE,
			article_id INT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			first_visited_at TIMESTAMP WITH TIME ZONE NOT NULL,
			last_visited_at TIMESTAMP WITH TIME ZONE NOT NULL,
			time_spent INT NOT NULL DEFAULT 0,
			PRIMARY KEY (member_id, article_id)
		);

		CREATE TABLE bookmark (
			id SERIAL PRIMARY KEY,
			member_id INT NOT NULL REFERENCES member (id) ON DELETE CASCADE,
			article_id INT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (member_id, article_id)
		);
		CREATE INDEX bookmark_member_id ON bookmark (member_id);
	`)
	return err
}

func (m InitialSchema) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE bookmark;
		DROP TABLE read_progress;
		DROP TABLE article_game;
		ALTER TABLE article DROP CONSTRAINT article_published_version_id_fkey;
		DROP TABLE article_version;
		DROP TABLE article;
		DROP TABLE article_series;
		DROP TABLE pending_login;
		DROP TABLE session;
		ALTER TABLE asset DROP CONSTRAINT asset_uploader_id_fkey;
		DROP TABLE member;
		DROP TABLE asset;
	`)
	return err
}
