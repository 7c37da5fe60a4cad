// Package segment partitions full pattern text into sections and rows,
// delegating instruction text to the stitch tokenizer and value lists to the
// size resolver.
package segment

import "errors"

// The only fatal conditions of the analysis pipeline: anything else degrades
// into a populated report.
var (
	// ErrEmptyInput is returned when the pattern text is empty or blank.
	ErrEmptyInput = errors.New("pattern text is empty")
	// ErrNoRows is returned when no instruction rows were detected.
	ErrNoRows = errors.New("no instruction rows detected in pattern text")
)
