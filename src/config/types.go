package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type RAConfig struct {
	Env         Environment
	Addr        string
	PrivateAddr string
	BaseUrl     string
	LogLevel    zerolog.Level

	Postgres PostgresConfig
	Auth     AuthConfig
	Discord  DiscordConfig
	Wiki     WikiConfig
	Preview  PreviewConfig
	Spaces   SpacesConfig
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelog.LogLevel
	MinConn  int32
	MaxConn  int32
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

type AuthConfig struct {
	CookieDomain string
	CookieSecure bool
}

type DiscordConfig struct {
	BotToken      string
	ClientID      string
	ClientSecret  string
	GuildID       string
	OAuthRedirect string
}

// The external wiki that hosts long-form markdown documents referenced by
// articles.
type WikiConfig struct {
	BaseUrl  string
	ApiToken string
}

type PreviewConfig struct {
	// Shared secret that the CMS editor iframe sends to enable preview mode.
	Secret string
}

type SpacesConfig struct {
	AssetsSpacesKey      string
	AssetsSpacesSecret   string
	AssetsSpacesRegion   string
	AssetsSpacesEndpoint string
	AssetsSpacesBucket   string
	AssetsPublicUrlRoot  string
}
