package contracts

import "errors"

var (
	// ErrInsufficientData means a series is too short, or a required scalar
	// could not be derived from it. The affected symbol is skipped, never
	// scored with defaulted inputs.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoiseRejected means the noise filter dropped the symbol (abnormal
	// single-day gap).
	ErrNoiseRejected = errors.New("rejected by noise filter")

	// ErrNoResults means a scan produced zero scored symbols.
	ErrNoResults = errors.New("scan produced no results")
)
