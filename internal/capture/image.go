// Package capture holds the evidence capture adapters: raw image payloads
// from uploads and device-reported positions.
package capture

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"suresavings/internal/kyc/models"
	"suresavings/pkg/requestcontext"
)

// DefaultMaxImageBytes caps a single uploaded image.
const DefaultMaxImageBytes int64 = 10 << 20

var acceptedContentTypes = map[models.ImageKind]map[string]struct{}{
	models.ImageKindDocument: {
		"image/jpeg":      {},
		"image/png":       {},
		"image/webp":      {},
		"application/pdf": {},
	},
	models.ImageKindLiveness: {
		"image/jpeg": {},
		"image/png":  {},
		"image/webp": {},
	},
}

// ImageCapturer turns an upload stream into an image evidence handle.
type ImageCapturer struct {
	maxBytes int64
	now      func() time.Time
}

// NewImageCapturer creates a capturer. A non-positive limit uses the default.
func NewImageCapturer(maxBytes int64) *ImageCapturer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ImageCapturer{maxBytes: maxBytes, now: time.Now}
}

// Capture reads an image of the given kind. The content type is sniffed from
// the payload; the client's claim is not trusted.
func (c *ImageCapturer) Capture(ctx context.Context, kind models.ImageKind, r io.Reader) (*models.Image, error) {
	accepted, ok := acceptedContentTypes[kind]
	if !ok {
		return nil, models.NewCaptureError(string(kind), "unsupported image kind")
	}

	data, err := io.ReadAll(io.LimitReader(r, c.maxBytes+1))
	if err != nil {
		return nil, models.NewCaptureError(string(kind), fmt.Sprintf("read image: %v", err))
	}
	if len(data) == 0 {
		return nil, models.NewCaptureError(string(kind), "image is empty")
	}
	if int64(len(data)) > c.maxBytes {
		return nil, models.NewCaptureError(string(kind), fmt.Sprintf("image exceeds %d bytes", c.maxBytes))
	}

	contentType := http.DetectContentType(data)
	if _, ok := accepted[contentType]; !ok {
		return nil, models.NewCaptureError(string(kind), fmt.Sprintf("content type %s is not accepted", contentType))
	}

	sum := sha256.Sum256(data)
	return &models.Image{
		Kind:        kind,
		ContentType: contentType,
		Data:        bytes.Clone(data),
		Digest:      hex.EncodeToString(sum[:]),
		Device:      requestcontext.Device(ctx),
		CapturedAt:  c.now(),
	}, nil
}
