package overlay

import (
	"net/url"
	"regexp"
	"strconv"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/utils"
)

// Stream overlays are OBS browser sources pointed at the portal. All of an
// overlay's configuration is carried in the URL itself, so a streamer can
// copy a link out of the builder and never touch a config file. That makes
// the query string a compatibility surface: decoding must accept anything
// (old links, hand-edited links, garbage) and fill in defaults rather than
// fail.

type Theme string

const (
	ThemeNeon     Theme = "neon"
	ThemeTerminal Theme = "terminal"
	ThemeGhost    Theme = "ghost"
)

var knownThemes = []Theme{ThemeNeon, ThemeTerminal, ThemeGhost}

const CurrentVersion = 1

type Config struct {
	Version int   `json:"version"`
	Theme   Theme `json:"theme"`

	AccentColor     string  `json:"accentColor"`     // hex, no leading #
	GlitchIntensity float64 `json:"glitchIntensity"` // 0-1

	ShowLatestArticles bool   `json:"showLatestArticles"`
	ShowMemberCount    bool   `json:"showMemberCount"`
	ShowTicker         bool   `json:"showTicker"`
	TickerText         string `json:"tickerText"`
}

func DefaultConfig() Config {
	return Config{
		Version:            CurrentVersion,
		Theme:              ThemeNeon,
		AccentColor:        "00ffd5",
		GlitchIntensity:    0.35,
		ShowLatestArticles: true,
		ShowMemberCount:    true,
		ShowTicker:         false,
	}
}

// Encodes the config as a URL query string. Only the version marker is
// always emitted; fields that hold their default value are omitted to keep
// links short.
func (c Config) EncodeQuery() string {
	def := DefaultConfig()
	q := url.Values{}
	q.Set("v", strconv.Itoa(CurrentVersion))
	if c.Theme != def.Theme {
		q.Set("theme", string(c.Theme))
	}
	if c.AccentColor != def.AccentColor {
		q.Set("accent", c.AccentColor)
	}
	if c.GlitchIntensity != def.GlitchIntensity {
		q.Set("glitch", strconv.FormatFloat(c.GlitchIntensity, 'f', -1, 64))
	}
	if c.ShowLatestArticles != def.ShowLatestArticles {
		q.Set("articles", boolParam(c.ShowLatestArticles))
	}
	if c.ShowMemberCount != def.ShowMemberCount {
		q.Set("members", boolParam(c.ShowMemberCount))
	}
	if c.ShowTicker != def.ShowTicker {
		q.Set("ticker", boolParam(c.ShowTicker))
	}
	if c.TickerText != def.TickerText {
		q.Set("tickertext", c.TickerText)
	}
	return q.Encode()
}

var reHexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Decodes an overlay config from URL query values. Total: every field falls
// back to its default when missing or malformed, values out of range are
// clamped, and unknown params are ignored.
func DecodeQuery(q url.Values) Config {
	c := DefaultConfig()

	if theme := Theme(q.Get("theme")); theme != "" {
		for _, known := range knownThemes {
			if theme == known {
				c.Theme = theme
				break
			}
		}
	}

	if accent := q.Get("accent"); reHexColor.MatchString(accent) {
		c.AccentColor = accent
	}

	if glitch := q.Get("glitch"); glitch != "" {
		if val, err := strconv.ParseFloat(glitch, 64); err == nil {
			c.GlitchIntensity = utils.Float64Clamp(0, val, 1)
		}
	}

	c.ShowLatestArticles = boolValue(q, "articles", c.ShowLatestArticles)
	c.ShowMemberCount = boolValue(q, "members", c.ShowMemberCount)
	c.ShowTicker = boolValue(q, "ticker", c.ShowTicker)

	if text := q.Get("tickertext"); text != "" {
		c.TickerText = text
	}

	return c
}

// Convenience for decoding a whole raw query string.
func DecodeQueryString(raw string) Config {
	q, err := url.ParseQuery(raw)
	if err != nil {
		return DefaultConfig()
	}
	return DecodeQuery(q)
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func boolValue(q url.Values, name string, def bool) bool {
	switch q.Get(name) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}
