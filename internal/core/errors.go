package core

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when the input text cannot be parsed as a
// package document at all.
var ErrInvalidFormat = errors.New("invalid package format")

// ErrInvalidMetadata is returned when a parsed document carries a field too
// malformed to derive a record from.
var ErrInvalidMetadata = errors.New("invalid package metadata")

// FormatError wraps ErrInvalidFormat with the underlying parse failure.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid package format: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

// MetadataError wraps ErrInvalidMetadata with the field that was malformed.
type MetadataError struct {
	Field  string
	Reason string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("invalid package metadata: %s: %s", e.Field, e.Reason)
}

func (e *MetadataError) Unwrap() error {
	return ErrInvalidMetadata
}
