package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/logging"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/utils"
	"github.com/jpillora/backoff"
)

// Client for the wiki that hosts long-form article bodies as markdown
// documents. The portal only ever reads from it.
//
// The wiki is somebody else's system and it goes down sometimes. Callers
// must treat a failed fetch as "content unavailable", not as a reason to 500
// the whole article page.

var NotFound = errors.New("wiki document not found")

const UserAgent = "roguearmy.xyz (portal backend)"

type Client struct {
	BaseUrl  string
	ApiToken string

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseUrl:  config.Config.Wiki.BaseUrl,
		ApiToken: config.Config.Wiki.ApiToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

const maxFetchAttempts = 3

// Fetches a markdown document by its stable id. Retries transient failures
// with exponential backoff; gives up after a few attempts. Returns NotFound
// for ids the wiki does not know.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	path := fmt.Sprintf("%s/api/documents/%s", c.BaseUrl, url.PathEscape(documentID))

	boff := backoff.Backoff{
		Min: 250 * time.Millisecond,
		Max: 5 * time.Second,
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if attempt > 1 {
			if err := utils.SleepContext(ctx, boff.Duration()); err != nil {
				return nil, err
			}
		}

		doc, retryable, err := c.fetchDocument(ctx, path)
		if err == nil {
			return doc, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		logging.ExtractLogger(ctx).Warn().
			Err(err).
			Str("documentId", documentID).
			Int("attempt", attempt).
			Msg("wiki fetch failed")
	}

	return nil, oops.New(lastErr, "failed to fetch wiki document %s after %d attempts", documentID, maxFetchAttempts)
}

func (c *Client) fetchDocument(ctx context.Context, url string) (doc *Document, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, oops.New(err, "failed to create wiki request")
	}
	if c.ApiToken != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.ApiToken))
	}
	req.Header.Add("User-Agent", UserAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		// fall through to decoding below
	case res.StatusCode == http.StatusNotFound:
		return nil, false, NotFound
	case res.StatusCode >= 500:
		return nil, true, oops.New(nil, "wiki returned status %d", res.StatusCode)
	default:
		return nil, false, oops.New(nil, "wiki returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, true, oops.New(err, "failed to read wiki response")
	}

	var result Document
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, false, oops.New(err, "failed to unmarshal wiki document")
	}

	return &result, false, nil
}
