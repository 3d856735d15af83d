package engine

import "errors"

var (
	errEmptyOCRResult = errors.New("ocr service returned no result")
	errNoPosition     = errors.New("position source returned no fix")
)
