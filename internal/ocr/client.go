// Package ocr is the HTTP adapter for the document OCR service.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"suresavings/internal/kyc/models"
	textutil "suresavings/pkg/platform/strings"
)

const (
	extractPath     = "/v1/extract"
	maxResponseSize = 1 << 20
)

// Client sends document images to the OCR service. Every failure is
// returned as *models.OCRError.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type extractResponse struct {
	Text             string   `json:"text"`
	Confidence       *int     `json:"confidence"`
	AddressLines     []string `json:"address_lines"`
	SuggestedAddress string   `json:"suggested_address"`
}

// Extract implements ports.OCRService.
func (c *Client) Extract(ctx context.Context, image models.Image) (*models.OCRResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractPath, bytes.NewReader(image.Data))
	if err != nil {
		return nil, &models.OCRError{Err: err}
	}
	req.Header.Set("Content-Type", image.ContentType)
	req.Header.Set("X-API-Key", c.apiKey)
	if image.Digest != "" {
		req.Header.Set("X-Content-Digest", "sha-256="+image.Digest)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.OCRError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &models.OCRError{Err: fmt.Errorf("read response: %w", err)}
	}
	return parseExtractResponse(resp.StatusCode, raw)
}

func parseExtractResponse(status int, body []byte) (*models.OCRResult, error) {
	if status != http.StatusOK {
		return nil, &models.OCRError{Err: fmt.Errorf("ocr service returned status %d", status)}
	}
	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.OCRError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Confidence == nil || *parsed.Confidence < 0 || *parsed.Confidence > 100 {
		return nil, &models.OCRError{Err: fmt.Errorf("confidence missing or outside 0-100")}
	}

	lines := textutil.DedupeLines(parsed.AddressLines)
	suggested := textutil.CollapseSpace(parsed.SuggestedAddress)
	if suggested == "" {
		suggested = strings.Join(lines, ", ")
	}
	if suggested == "" {
		return nil, &models.OCRError{Err: fmt.Errorf("no address found on document")}
	}

	return &models.OCRResult{
		ExtractedText:    parsed.Text,
		Confidence:       *parsed.Confidence,
		AddressLines:     lines,
		SuggestedAddress: suggested,
	}, nil
}
