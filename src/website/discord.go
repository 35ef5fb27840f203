package website

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/assets"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/auth"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/discord"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/radata"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/raurl"
)

// Finishes the Discord OAuth flow. The state parameter must match a pending
// login we created in Login; on success the Discord user becomes (or
// refreshes) a portal member and gets a session.
//
// Only members of the Rogue Army guild may log in. Anyone else authenticates
// fine with Discord and then gets turned away here.
func DiscordOAuthCallback(c *RequestContext) ResponseData {
	query := c.Req.URL.Query()

	state := query.Get("state")
	pendingLogin, err := auth.ConsumePendingLogin(c, c.Conn, state)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			c.Logger.Warn().Msg("failed Discord OAuth state validation - potential attack?")
			return c.Redirect(raurl.BuildHomepage(), http.StatusSeeOther)
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to look up pending login"))
	}
	destinationUrl := pendingLogin.DestinationUrl
	if destinationUrl == "" {
		destinationUrl = raurl.BuildHomepage()
	}

	// Check for error values and redirect back to from whence they came
	if errCode := query.Get("error"); errCode != "" {
		if errCode == "access_denied" {
			// This occurs when the user cancels. Just go back so they can try again.
			return c.Redirect(raurl.BuildLogin(destinationUrl), http.StatusSeeOther)
		} else {
			return c.RejectRequest("Failed to authenticate with Discord.")
		}
	}

	// Do the actual token exchange
	code := query.Get("code")
	authRes, err := discord.ExchangeOAuthCode(c, code, raurl.BuildDiscordOAuthCallback())
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to exchange Discord authorization code"))
	}

	user, err := discord.GetCurrentUserAsOAuth(c, authRes.AccessToken)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch Discord user info"))
	}

	guildMember, err := discord.GetGuildMember(c, config.Config.Discord.GuildID, user.ID)
	if err != nil {
		if errors.Is(err, discord.NotFound) {
			return c.RejectRequest("You need to join the Rogue Army Discord server before logging in here.")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to check Discord server membership"))
	}

	member, err := radata.UpsertMemberFromDiscord(c, c.Conn, user)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	// Prefer the server nickname over the global display name, and save the
	// avatar. Best effort only; don't fail the login over cosmetics.
	if guildMember.Nick != nil && *guildMember.Nick != member.DisplayName {
		_, err := c.Conn.Exec(c,
			`UPDATE member SET display_name = $1 WHERE id = $2`,
			*guildMember.Nick, member.ID,
		)
		if err != nil {
			c.Logger.Warn().Err(err).Msg("failed to save member nickname")
		}
	}
	if user.Avatar != nil {
		if err := saveDiscordAvatar(c, c.Conn, member, user.ID, *user.Avatar); err != nil {
			c.Logger.Warn().Err(err).Msg("failed to save Discord avatar")
		}
	}

	session, err := auth.CreateSession(c, c.Conn, member.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create session"))
	}

	res := c.Redirect(destinationUrl, http.StatusSeeOther)
	res.SetCookie(auth.NewSessionCookie(session))
	return res
}

func saveDiscordAvatar(ctx context.Context, conn db.ConnOrTx, member *models.Member, userID, avatarHash string) error {
	const size = 256

	filename := fmt.Sprintf("%s.png", avatarHash)
	url := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s?size=%d", userID, filename, size)

	res, err := http.Get(url)
	if err != nil {
		return oops.New(err, "failed to download Discord avatar")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return oops.New(nil, "got status %d when downloading Discord avatar", res.StatusCode)
	}
	content, err := io.ReadAll(res.Body)
	if err != nil {
		return oops.New(err, "failed to read Discord avatar")
	}

	asset, err := assets.Create(ctx, conn, assets.CreateInput{
		Content:     content,
		Filename:    filename,
		ContentType: "image/png",
		UploaderID:  &member.ID,
	})
	if err != nil {
		return oops.New(err, "failed to save asset for Discord avatar")
	}

	_, err = conn.Exec(ctx,
		`UPDATE member SET avatar_asset_id = $1 WHERE id = $2`,
		asset.ID, member.ID,
	)
	if err != nil {
		return oops.New(err, "failed to point member at new avatar")
	}
	return nil
}
