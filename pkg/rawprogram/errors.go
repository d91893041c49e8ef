package rawprogram

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSourceDocuments is returned when a lookup is attempted without any documents.
	ErrNoSourceDocuments = errors.New("rawprogram: no partition table documents")
	// ErrPartitionNotFound is returned when no document contains the requested label.
	ErrPartitionNotFound = errors.New("rawprogram: partition not found")
)

// ParseError wraps a failure to parse one partition table document.
type ParseError struct {
	Document string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rawprogram: failed to parse %s: %v", e.Document, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
