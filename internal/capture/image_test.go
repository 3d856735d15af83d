package capture

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suresavings/internal/kyc/models"
	dErrors "suresavings/pkg/domain-errors"
	"suresavings/pkg/requestcontext"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestImageCapturer(t *testing.T) {
	ctx := requestcontext.WithClientMetadata(context.Background(), "10.0.0.1", "iPhone / Safari")

	t.Run("captures a png document", func(t *testing.T) {
		c := NewImageCapturer(1024)
		img, err := c.Capture(ctx, models.ImageKindDocument, bytes.NewReader(pngHeader))
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, models.ImageKindDocument, img.Kind)
		assert.Len(t, img.Digest, 64)
		assert.Equal(t, "iPhone / Safari", img.Device)
		assert.Equal(t, len(pngHeader), img.Size())
	})

	t.Run("pdf is a document but not a liveness photo", func(t *testing.T) {
		c := NewImageCapturer(1024)
		pdf := []byte("%PDF-1.7\n")
		_, err := c.Capture(ctx, models.ImageKindDocument, bytes.NewReader(pdf))
		require.NoError(t, err)

		_, err = c.Capture(ctx, models.ImageKindLiveness, bytes.NewReader(pdf))
		require.Error(t, err)
		var ce *models.CaptureError
		assert.ErrorAs(t, err, &ce)
		assert.Equal(t, "liveness", ce.Source)
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		_, err := NewImageCapturer(0).Capture(ctx, models.ImageKindDocument, strings.NewReader(""))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("oversized payload is rejected", func(t *testing.T) {
		c := NewImageCapturer(8)
		_, err := c.Capture(ctx, models.ImageKindDocument, bytes.NewReader(pngHeader))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("plain text is rejected", func(t *testing.T) {
		_, err := NewImageCapturer(0).Capture(ctx, models.ImageKindDocument, strings.NewReader("hello"))
		assert.Error(t, err)
	})
}
