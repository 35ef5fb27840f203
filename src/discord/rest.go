package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/logging"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/utils"
)

const (
	BotName = "RogueArmy"
	BaseUrl = "https://discord.com/api/v10"

	UserAgentURL     = "https://roguearmy.xyz/"
	UserAgentVersion = "1.0"
)

var UserAgent = fmt.Sprintf("%s (%s, %s)", BotName, UserAgentURL, UserAgentVersion)

var NotFound = errors.New("not found")

var httpClient = &http.Client{}

func makeRequest(ctx context.Context, method string, path string, body []byte) *http.Request {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewBuffer(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", BaseUrl, path), bodyReader)
	if err != nil {
		panic(err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bot %s", config.Config.Discord.BotToken))
	req.Header.Add("User-Agent", UserAgent)

	return req
}

/*
Performs a request, waiting and retrying when Discord tells us to slow down.
The name is only used for logging.
*/
func doWithRateLimiting(ctx context.Context, name string, getRequest func(ctx context.Context) *http.Request) (*http.Response, error) {
	for {
		res, err := httpClient.Do(getRequest(ctx))
		if err != nil {
			return nil, err
		}

		if res.StatusCode != http.StatusTooManyRequests {
			return res, nil
		}

		res.Body.Close()
		retryAfter := 1 * time.Second
		if str := res.Header.Get("Retry-After"); str != "" {
			if seconds, err := strconv.ParseFloat(str, 64); err == nil {
				retryAfter = time.Duration(seconds * float64(time.Second))
			}
		}
		logging.ExtractLogger(ctx).Warn().
			Str("request", name).
			Dur("retryAfter", retryAfter).
			Msg("Discord rate limited us")
		if err := utils.SleepContext(ctx, retryAfter); err != nil {
			return nil, err
		}
	}
}

func logErrorResponse(ctx context.Context, name string, res *http.Response, msg string) {
	body, _ := io.ReadAll(res.Body)
	logging.ExtractLogger(ctx).Error().
		Str("request", name).
		Int("status", res.StatusCode).
		Str("body", string(body)).
		Msg(msg)
}

// The URL to send a member to when they want to log in. The state must come
// from a pending login or the current session's CSRF token.
func BuildAuthorizeUrl(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", config.Config.Discord.ClientID)
	q.Set("scope", "identify")
	q.Set("state", state)
	q.Set("redirect_uri", config.Config.Discord.OAuthRedirect)
	q.Set("prompt", "none")

	return fmt.Sprintf("https://discord.com/oauth2/authorize?%s", q.Encode())
}

func ExchangeOAuthCode(ctx context.Context, code, redirectUri string) (*OAuthTokenResponse, error) {
	const name = "Exchange OAuth Code"

	body := url.Values{}
	body.Set("grant_type", "authorization_code")
	body.Set("code", code)
	body.Set("redirect_uri", redirectUri)
	bodyStr := body.Encode()

	res, err := doWithRateLimiting(ctx, name, func(ctx context.Context) *http.Request {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/oauth2/token", BaseUrl), bytes.NewBufferString(bodyStr))
		if err != nil {
			panic(err)
		}
		req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Add("User-Agent", UserAgent)
		req.SetBasicAuth(config.Config.Discord.ClientID, config.Config.Discord.ClientSecret)
		return req
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		logErrorResponse(ctx, name, res, "failed to exchange OAuth code")
		return nil, oops.New(nil, "received error from Discord")
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		panic(err)
	}

	var result OAuthTokenResponse
	err = json.Unmarshal(resBody, &result)
	if err != nil {
		return nil, oops.New(err, "failed to unmarshal Discord response")
	}

	return &result, nil
}

func GetCurrentUserAsOAuth(ctx context.Context, accessToken string) (*User, error) {
	const name = "Get Current User As OAuth"

	res, err := doWithRateLimiting(ctx, name, func(ctx context.Context) *http.Request {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/@me", BaseUrl), nil)
		if err != nil {
			panic(err)
		}
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", accessToken))
		req.Header.Add("User-Agent", UserAgent)
		return req
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		logErrorResponse(ctx, name, res, "failed to fetch current user")
		return nil, oops.New(nil, "received error from Discord")
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		panic(err)
	}

	var user User
	err = json.Unmarshal(body, &user)
	if err != nil {
		return nil, oops.New(err, "failed to unmarshal Discord response")
	}

	return &user, nil
}

func GetGuildMember(ctx context.Context, guildID, userID string) (*GuildMember, error) {
	const name = "Get Guild Member"

	path := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	res, err := doWithRateLimiting(ctx, name, func(ctx context.Context) *http.Request {
		return makeRequest(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, NotFound
	} else if res.StatusCode != http.StatusOK {
		logErrorResponse(ctx, name, res, "failed to fetch guild member")
		return nil, oops.New(nil, "received error from Discord")
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		panic(err)
	}

	var member GuildMember
	err = json.Unmarshal(body, &member)
	if err != nil {
		return nil, oops.New(err, "failed to unmarshal Discord response")
	}

	return &member, nil
}

func GetGatewayUrl(ctx context.Context) (string, error) {
	const name = "Get Gateway"

	res, err := doWithRateLimiting(ctx, name, func(ctx context.Context) *http.Request {
		return makeRequest(ctx, http.MethodGet, "/gateway/bot", nil)
	})
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		logErrorResponse(ctx, name, res, "failed to fetch gateway URL")
		return "", oops.New(nil, "received error from Discord")
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		panic(err)
	}

	var result struct {
		URL string `json:"url"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return "", oops.New(err, "failed to unmarshal Discord response")
	}

	return result.URL, nil
}
