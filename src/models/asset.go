package models

import "github.com/google/uuid"

type Asset struct {
	ID uuid.UUID `db:"id"`

	S3Key       string `db:"s3_key"`
	Filename    string `db:"filename"`
	ContentType string `db:"mime_type"`

	Width  int `db:"width"`
	Height int `db:"height"`
	Size   int `db:"size"`

	UploaderID *int `db:"uploader_id"`
}
