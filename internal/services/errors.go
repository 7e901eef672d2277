package services

import "errors"

var (
	ErrExtractionFailure = errors.New("text extraction failed")
	ErrInsufficientText  = errors.New("extracted text is too short")
	ErrAnalysisFailure   = errors.New("resume analysis failed")
	ErrComparisonFailure = errors.New("job description comparison failed")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrIndexDisabled     = errors.New("job description index is disabled")
)
