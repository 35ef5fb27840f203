package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"regexp"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

var client *s3.Client

func init() {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.Config.Spaces.AssetsSpacesKey,
				config.Config.Spaces.AssetsSpacesSecret,
				"",
			),
		),
		awsconfig.WithRegion(config.Config.Spaces.AssetsSpacesRegion),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: config.Config.Spaces.AssetsSpacesEndpoint,
			}, nil
		})),
	)
	if err != nil {
		panic(err)
	}
	client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

type CreateInput struct {
	Content     []byte
	Filename    string
	ContentType string

	// Optional params
	UploaderID *int
}

var REIllegalFilenameChars = regexp.MustCompile(`[^\w\-.]`)

func SanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return REIllegalFilenameChars.ReplaceAllString(filename, "_")
}

func AssetKey(id, filename string) string {
	return fmt.Sprintf("%s/%s", id, filename)
}

type InvalidAssetError error

func Create(ctx context.Context, dbConn db.ConnOrTx, in CreateInput) (*models.Asset, error) {
	filename := SanitizeFilename(in.Filename)

	if len(in.Content) == 0 {
		return nil, InvalidAssetError(fmt.Errorf("could not upload asset '%s': no bytes of data were provided", filename))
	}
	if in.ContentType == "" {
		return nil, InvalidAssetError(fmt.Errorf("could not upload asset '%s': no content type provided", filename))
	}

	width, height := imageDimensions(in.ContentType, in.Content)

	id := uuid.New()
	key := AssetKey(id.String(), filename)

	upload := func() error {
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &config.Config.Spaces.AssetsSpacesBucket,
			Key:         &key,
			Body:        bytes.NewReader(in.Content),
			ACL:         types.ObjectCannedACLPublicRead,
			ContentType: &in.ContentType,
		})
		return err
	}

	err := upload()
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) && apiError.ErrorCode() == "NoSuchBucket" {
			_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
				Bucket: &config.Config.Spaces.AssetsSpacesBucket,
			})
			if err != nil {
				return nil, oops.New(err, "failed to create assets bucket")
			}

			err = upload()
			if err != nil {
				return nil, oops.New(err, "failed to upload asset")
			}
		} else {
			return nil, oops.New(err, "failed to upload asset")
		}
	}

	asset, err := db.QueryOne[models.Asset](ctx, dbConn,
		`
		INSERT INTO asset (id, s3_key, filename, size, mime_type, width, height, uploader_id)
		VALUES            ($1, $2,     $3,       $4,   $5,        $6,    $7,     $8)
		RETURNING $columns
		`,
		id,
		key,
		filename,
		len(in.Content),
		in.ContentType,
		width,
		height,
		in.UploaderID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save asset record")
	}

	return asset, nil
}

func Delete(ctx context.Context, dbConn db.ConnOrTx, asset *models.Asset) error {
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &config.Config.Spaces.AssetsSpacesBucket,
		Key:    &asset.S3Key,
	})
	if err != nil {
		return oops.New(err, "failed to delete asset from storage")
	}

	_, err = dbConn.Exec(ctx, `DELETE FROM asset WHERE id = $1`, asset.ID)
	if err != nil {
		return oops.New(err, "failed to delete asset record")
	}
	return nil
}

// Sniffs pixel dimensions from image uploads so layouts can reserve space
// before the hero image loads. Non-images and undecodable files just get
// zero dimensions; this is best-effort only.
func imageDimensions(contentType string, content []byte) (int, int) {
	if !strings.HasPrefix(contentType, "image/") {
		return 0, 0
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
