package domain

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors
var (
	// ErrNotJSON indicates a manifest could not be parsed as JSON
	ErrNotJSON = errors.New("is not json")

	// ErrComponentNotExist indicates an expected component manifest is missing
	ErrComponentNotExist = errors.New("not exist component")

	// ErrTooManyReferences indicates an entry exceeded the reference limit
	ErrTooManyReferences = errors.New("too many component references")

	// ErrAssetRead indicates an entry asset could not provide its source
	ErrAssetRead = errors.New("asset source unavailable")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// ManifestError ties a manifest failure to the path or label it concerns.
// Its message is "<path> <reason>", e.g. "pages/a/a.json is not json".
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// NewManifestError creates a new ManifestError
func NewManifestError(path string, err error) *ManifestError {
	return &ManifestError{
		Path: path,
		Err:  err,
	}
}

// IsNotJSON reports whether err is a malformed manifest error
func IsNotJSON(err error) bool {
	return errors.Is(err, ErrNotJSON)
}

// IsComponentNotExist reports whether err is a missing manifest error
func IsComponentNotExist(err error) bool {
	return errors.Is(err, ErrComponentNotExist)
}

// ErrorSink receives non-fatal errors found during resolution.
type ErrorSink interface {
	Report(err error)
}

// ErrorList is the caller-owned error collection of one build pass.
// The zero value is ready to use.
type ErrorList struct {
	mu   sync.Mutex
	errs []error
}

// NewErrorList creates an empty ErrorList
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Report appends err to the list. Nil errors are ignored.
func (l *ErrorList) Report(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

// Errors returns a copy of the collected errors in report order
func (l *ErrorList) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Len returns the number of collected errors
func (l *ErrorList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}

// Reset drops every collected error
func (l *ErrorList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = nil
}

// Err joins the collected errors, or returns nil when there are none
func (l *ErrorList) Err() error {
	return errors.Join(l.Errors()...)
}

// SinkFunc adapts a function to the ErrorSink interface
type SinkFunc func(err error)

// Report calls f(err)
func (f SinkFunc) Report(err error) {
	f(err)
}

// Discard is an ErrorSink that drops every error
var Discard ErrorSink = SinkFunc(func(error) {})
