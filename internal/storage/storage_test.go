package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailResizesToWidth(t *testing.T) {
	src := imaging.New(1280, 960, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Thumbnail(buf.Bytes())
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, ThumbnailWidth, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestThumbnailRejectsNonImage(t *testing.T) {
	_, err := Thumbnail([]byte("%PDF-1.4 not an image"))
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	s := &S3Store{bucket: "docs", region: "us-east-1"}
	assert.Equal(t, "https://docs.s3.us-east-1.amazonaws.com/applications/a1/x_my%20file.pdf",
		s.publicURL("applications/a1/x_my file.pdf"))

	s.endpoint = "http://localhost:9000"
	assert.Equal(t, "http://localhost:9000/docs/applications/a1/f.pdf", s.publicURL("applications/a1/f.pdf"))
}
