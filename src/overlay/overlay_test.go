package overlay

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	c := Config{
		Version:            CurrentVersion,
		Theme:              ThemeTerminal,
		AccentColor:        "ff2a6d",
		GlitchIntensity:    0.8,
		ShowLatestArticles: false,
		ShowMemberCount:    true,
		ShowTicker:         true,
		TickerText:         "raid night @ 20:00",
	}

	decoded := DecodeQueryString(c.EncodeQuery())
	assert.Equal(t, c, decoded)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), DecodeQueryString(""))
	assert.Equal(t, DefaultConfig(), DecodeQueryString("v=1"))

	// Defaults are omitted from encoded links.
	assert.Equal(t, "v=1", DefaultConfig().EncodeQuery())
}

func TestDecodeIsTotal(t *testing.T) {
	t.Run("garbage values fall back to defaults", func(t *testing.T) {
		c := DecodeQueryString("theme=vaporwave&accent=notacolor&glitch=lots")
		def := DefaultConfig()
		assert.Equal(t, def.Theme, c.Theme)
		assert.Equal(t, def.AccentColor, c.AccentColor)
		assert.Equal(t, def.GlitchIntensity, c.GlitchIntensity)
	})

	t.Run("glitch intensity is clamped", func(t *testing.T) {
		assert.Equal(t, 1.0, DecodeQueryString("glitch=99").GlitchIntensity)
		assert.Equal(t, 0.0, DecodeQueryString("glitch=-3").GlitchIntensity)
	})

	t.Run("unknown params are ignored", func(t *testing.T) {
		c := DecodeQueryString("theme=ghost&wat=yes")
		assert.Equal(t, ThemeGhost, c.Theme)
	})

	t.Run("unparseable query string", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), DecodeQueryString("%zz"))
	})

	t.Run("boolean spellings", func(t *testing.T) {
		q := url.Values{}
		q.Set("ticker", "true")
		assert.True(t, DecodeQuery(q).ShowTicker)
		q.Set("ticker", "0")
		assert.False(t, DecodeQuery(q).ShowTicker)
	})
}

func TestDecodeIsStable(t *testing.T) {
	raw := "v=1&theme=terminal&glitch=0.5"
	first := DecodeQueryString(raw)
	second := DecodeQueryString(first.EncodeQuery())
	require.Equal(t, first, second)
}
