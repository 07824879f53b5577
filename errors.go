package smcache

import "fmt"

// WriterError is the single error type New returns. It always wraps one of
// three causes.
type WriterError struct {
	cause error
}

func (e *WriterError) Error() string {
	return fmt.Sprintf("smcache: %v", e.cause)
}

func (e *WriterError) Unwrap() error { return e.cause }

// SourceMapError wraps a source-map decode or flatten failure.
type SourceMapError struct{ err error }

func (e *SourceMapError) Error() string { return fmt.Sprintf("source map: %v", e.err) }
func (e *SourceMapError) Unwrap() error { return e.err }

// SourceContextError wraps a minified-text UTF-8 or offset-table failure.
type SourceContextError struct{ err error }

func (e *SourceContextError) Error() string { return fmt.Sprintf("source context: %v", e.err) }
func (e *SourceContextError) Unwrap() error { return e.err }

// ScopeIndexError wraps a malformed (overlapping non-nested) scope set.
type ScopeIndexError struct{ err error }

func (e *ScopeIndexError) Error() string { return fmt.Sprintf("scope index: %v", e.err) }
func (e *ScopeIndexError) Unwrap() error { return e.err }

func wrapSourceMap(err error) error {
	if err == nil {
		return nil
	}
	return &WriterError{cause: &SourceMapError{err: err}}
}

func wrapSourceContext(err error) error {
	if err == nil {
		return nil
	}
	return &WriterError{cause: &SourceContextError{err: err}}
}

func wrapScopeIndex(err error) error {
	if err == nil {
		return nil
	}
	return &WriterError{cause: &ScopeIndexError{err: err}}
}
