package scorer

import "errors"

var (
	// ErrTimeout indicates the analyzer did not finish within the deadline
	ErrTimeout = errors.New("analysis timed out")

	// ErrAnalyzerFailed indicates the analyzer process exited non-zero
	ErrAnalyzerFailed = errors.New("analyzer failed")

	// ErrBadOutput indicates the analyzer output did not parse as result records
	ErrBadOutput = errors.New("invalid analyzer output")
)
