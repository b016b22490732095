package security

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	data := pngBytes(t, 4, 4)

	t.Run("Should accept a real PNG", func(t *testing.T) {
		res := ValidateImage("offer.png", data)
		assert.True(t, res.Valid, res.Error)
		assert.Equal(t, "image/png", res.DetectedMIME)
	})

	t.Run("Should reject a PNG named as JPEG", func(t *testing.T) {
		res := ValidateImage("offer.jpg", data)
		assert.False(t, res.Valid)
		assert.Equal(t, "File content does not match its extension", res.Error)
	})

	t.Run("Should reject other extensions", func(t *testing.T) {
		res := ValidateImage("offer.pdf", []byte("%PDF-1.4"))
		assert.False(t, res.Valid)
		assert.Equal(t, "Only JPEG and PNG images are allowed", res.Error)
	})

	t.Run("Should reject files over 5MB", func(t *testing.T) {
		big := make([]byte, MaxImageSize+1)
		copy(big, data)
		res := ValidateImage("offer.png", big)
		assert.False(t, res.Valid)
		assert.Equal(t, "File size must be less than 5MB", res.Error)
	})

	t.Run("Should reject empty files", func(t *testing.T) {
		assert.False(t, ValidateImage("offer.png", nil).Valid)
	})
}

func TestCompressImage(t *testing.T) {
	out, err := CompressImage(pngBytes(t, 400, 100), 200, 80)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	_, err = CompressImage([]byte("not an image"), 200, 80)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "offer_letter-2024", SanitizeFilename("offer letter-2024.png"))
	assert.Equal(t, "file", SanitizeFilename("ऑफ़र.png"))
	assert.Equal(t, "file", SanitizeFilename(".png"))
}

func TestUploadLimiterWithoutRedis(t *testing.T) {
	ul := NewUploadLimiter(nil, 0)
	allowed, err := ul.Allow(context.Background(), "u-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, ul.Release(context.Background(), "u-1"))
	assert.Equal(t, "ratelimit:upload:user:u-1", uploadKey("u-1"))
}

func TestLoginTrackerWithoutRedis(t *testing.T) {
	ctx := context.Background()
	lt := NewLoginTracker(nil, LoginTrackerConfig{})
	assert.Equal(t, DefaultLoginTrackerConfig(), lt.config)

	blocked, err := lt.IsBlocked(ctx, "a@b.co")
	assert.NoError(t, err)
	assert.False(t, blocked)

	blocked, attempts, err := lt.RecordFailure(ctx, "a@b.co")
	assert.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, attempts)

	assert.NoError(t, lt.Clear(ctx, "a@b.co"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", normalizeEmail("  Asha@Example.COM "))
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "a***@example.com", maskValue("email", "asha@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "10.0.0.1", maskValue("ip", "10.0.0.1"))
	assert.Len(t, maskValue("user_id", "u-1"), 16)
	assert.NotEqual(t, "u-1", maskValue("user_id", "u-1"))

	assert.NotPanics(t, func() {
		LogEvent(context.Background(), SecurityEvent{Event: EventLoginFailed, SubjectType: "email", SubjectValue: "asha@example.com"})
	})
}
