package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"suresavings/internal/kyc/models"
)

const (
	msgOCRFailed           = "We could not read your document. Please upload a clearer image and try again."
	msgOCRLowConfidence    = "Your document was hard to read. Please check the extracted address carefully."
	msgPositionUnavailable = "We could not determine your location. You can retry, or continue without it."
)

// extractDocument runs OCR on the uploaded document. On failure the session
// keeps its previous OCR result cleared and gets a user-facing error message.
func (e *Engine) extractDocument(ctx context.Context, state *models.WorkflowState) error {
	ctx, span := e.tracer.Start(ctx, "engine.ExtractDocument", trace.WithAttributes(
		attribute.String("session_id", state.ID.String()),
		attribute.Int("image_bytes", state.DocumentImage.Size()),
	))
	defer span.End()

	start := time.Now()
	result, err := e.ocr.Extract(ctx, *state.DocumentImage)
	e.metrics.ObserveDependency("ocr", time.Since(start))
	if err == nil && result == nil {
		err = &models.OCRError{Err: errEmptyOCRResult}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ocr failed")
		state.OCRResult = nil
		state.ErrorMessage = msgOCRFailed
		e.logWarn(ctx, "document extraction failed", state, err)
		return err
	}

	result.LowConfidence = result.Confidence < e.ocrThreshold
	state.OCRResult = result
	state.CollectedFields[models.FieldSelectedAddress] = result.SuggestedAddress
	if result.LowConfidence {
		state.Notice = msgOCRLowConfidence
	} else if state.Notice == msgOCRLowConfidence {
		state.Notice = ""
	}
	span.SetAttributes(
		attribute.Int("confidence", result.Confidence),
		attribute.Bool("low_confidence", result.LowConfidence),
	)
	return nil
}

// capturePosition acquires the device position with a bounded wait. It is
// best-effort: any failure leaves Geolocation nil and never blocks the flow.
func (e *Engine) capturePosition(ctx context.Context, state *models.WorkflowState) {
	ctx, span := e.tracer.Start(ctx, "engine.CapturePosition", trace.WithAttributes(
		attribute.String("session_id", state.ID.String()),
		attribute.Bool("high_accuracy", e.positionOpts.HighAccuracy),
	))
	defer span.End()

	if e.positionOpts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.positionOpts.Timeout)
		defer cancel()
	}

	start := time.Now()
	fix, err := e.positions.CurrentPosition(ctx, state.ID, e.positionOpts)
	e.metrics.ObserveDependency("geolocation", time.Since(start))
	if err == nil && fix == nil {
		err = errNoPosition
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "position unavailable")
		state.Geolocation = nil
		state.Notice = msgPositionUnavailable
		e.logWarn(ctx, "position capture failed", state, err)
		return
	}

	state.Geolocation = fix
	if state.Notice == msgPositionUnavailable {
		state.Notice = ""
	}
	span.SetAttributes(attribute.Float64("accuracy_meters", fix.AccuracyMeters))
}
