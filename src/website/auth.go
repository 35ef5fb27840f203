package website

import (
	"net/http"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/auth"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/discord"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/raurl"
)

// Kicks off the Discord OAuth flow. There is no password login; Discord is
// the only identity provider.
func Login(c *RequestContext) ResponseData {
	if c.CurrentMember != nil {
		return c.Redirect(raurl.BuildHomepage(), http.StatusSeeOther)
	}

	destinationUrl := c.Req.URL.Query().Get("redirect")
	pendingLogin, err := auth.CreatePendingLogin(c, c.Conn, destinationUrl)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save pending login"))
	}

	return c.Redirect(discord.BuildAuthorizeUrl(pendingLogin.ID), http.StatusSeeOther)
}

func Logout(c *RequestContext) ResponseData {
	res := c.Redirect(raurl.BuildHomepage(), http.StatusSeeOther)
	logoutMember(c, &res)
	return res
}

func logoutMember(c *RequestContext, res *ResponseData) {
	if c.CurrentSession != nil {
		err := auth.DeleteSession(c, c.Conn, c.CurrentSession.ID)
		if err != nil {
			c.Logger.Error().Err(err).Msg("failed to delete session on logout")
		}
	}
	res.SetCookie(auth.DeleteSessionCookie)
}
