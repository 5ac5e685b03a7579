package research

import "errors"

var (
	// ErrValidation is returned when required input is missing.
	ErrValidation = errors.New("validation error")
	// ErrPlanning is returned when the report outline cannot be produced.
	ErrPlanning = errors.New("planning error")
	// ErrReportGeneration is returned when the report cannot be produced.
	ErrReportGeneration = errors.New("report generation error")
)
