package config

import (
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// All configuration comes from the environment so that the same binary can
// run in dev, beta, and live. Defaults are suitable for local development
// against a local Postgres.
var Config = RAConfig{
	Env:         Environment(env("RA_ENV", string(Dev))),
	Addr:        env("RA_ADDR", ":9001"),
	PrivateAddr: env("RA_PRIVATE_ADDR", "localhost:9002"),
	BaseUrl:     env("RA_BASE_URL", "http://localhost:9001"),
	LogLevel:    zerolog.InfoLevel,

	Postgres: PostgresConfig{
		User:     env("RA_PG_USER", "ra"),
		Password: env("RA_PG_PASSWORD", "password"),
		Hostname: env("RA_PG_HOST", "localhost"),
		Port:     envInt("RA_PG_PORT", 5432),
		DbName:   env("RA_PG_DBNAME", "ra"),
		LogLevel: tracelog.LogLevelWarn,
		MinConn:  int32(envInt("RA_PG_MIN_CONN", 2)),
		MaxConn:  int32(envInt("RA_PG_MAX_CONN", 10)),
	},

	Auth: AuthConfig{
		CookieDomain: env("RA_COOKIE_DOMAIN", "localhost"),
		CookieSecure: env("RA_COOKIE_SECURE", "") != "",
	},

	Discord: DiscordConfig{
		BotToken:      os.Getenv("RA_DISCORD_BOT_TOKEN"),
		ClientID:      os.Getenv("RA_DISCORD_CLIENT_ID"),
		ClientSecret:  os.Getenv("RA_DISCORD_CLIENT_SECRET"),
		GuildID:       os.Getenv("RA_DISCORD_GUILD_ID"),
		OAuthRedirect: env("RA_DISCORD_OAUTH_REDIRECT", "http://localhost:9001/login/discord/callback"),
	},

	Wiki: WikiConfig{
		BaseUrl:  env("RA_WIKI_BASE_URL", "https://wiki.roguearmy.xyz"),
		ApiToken: os.Getenv("RA_WIKI_API_TOKEN"),
	},

	Preview: PreviewConfig{
		Secret: os.Getenv("RA_PREVIEW_SECRET"),
	},

	Spaces: SpacesConfig{
		AssetsSpacesKey:      os.Getenv("RA_SPACES_KEY"),
		AssetsSpacesSecret:   os.Getenv("RA_SPACES_SECRET"),
		AssetsSpacesRegion:   env("RA_SPACES_REGION", "ams3"),
		AssetsSpacesEndpoint: env("RA_SPACES_ENDPOINT", "https://ams3.digitaloceanspaces.com"),
		AssetsSpacesBucket:   env("RA_SPACES_BUCKET", "ra-assets"),
		AssetsPublicUrlRoot:  env("RA_SPACES_URL_ROOT", "https://assets.roguearmy.xyz/"),
	},
}

func env(name, def string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return def
}

func envInt(name string, def int) int {
	if val := os.Getenv(name); val != "" {
		i, err := strconv.Atoi(val)
		if err == nil {
			return i
		}
	}
	return def
}
