package assets

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "cool_filename.txt.wow", SanitizeFilename("cool filename.txt.wow"))
	assert.Equal(t, "newlines_aretotallylegal", SanitizeFilename("newlines\naretotallylegal"))
	assert.Equal(t, "unnamed", SanitizeFilename(""))
}

func TestImageDimensions(t *testing.T) {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 16)))
	assert.Nil(t, err)

	w, h := imageDimensions("image/png", buf.Bytes())
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)

	w, h = imageDimensions("text/plain", buf.Bytes())
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)

	w, h = imageDimensions("image/png", []byte("not an image"))
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)
}
