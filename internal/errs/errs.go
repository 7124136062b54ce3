package errs

import (
	"errors"
	"fmt"
	"log/slog"
)

// Kind classifies an error for callers that must react differently
// (reject input, retry, report upstream failure).
type Kind string

const (
	KindUnknown      Kind = ""
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindPrecondition Kind = "precondition"
	KindConflict     Kind = "conflict"
	KindGeneration   Kind = "generation"
	KindTimeout      Kind = "timeout"
	KindPersistence  Kind = "persistence"
)

// Wrap adds context and preserves the error chain (errors.Is/As works).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context and preserves the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	// Append the original err as the last arg for %w.
	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

// KindError tags an error with a Kind. The innermost tag wins when several
// are present, so wrap at the root cause.
type KindError struct {
	kind Kind
	err  error
}

func (e *KindError) Error() string { return e.err.Error() }
func (e *KindError) Unwrap() error { return e.err }
func (e *KindError) Kind() Kind    { return e.kind }

// New returns a sentinel-style error carrying kind.
func New(kind Kind, msg string) error {
	return &KindError{kind: kind, err: errors.New(msg)}
}

// WithKind tags err with kind unless it already carries one.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	var ke *KindError
	if errors.As(err, &ke) {
		return err
	}
	return &KindError{kind: kind, err: err}
}

// KindOf reports the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// LogValue makes slog encode the error as structured fields.
// Usage: slog.Any("err", errs.Loggable(err))
type loggable struct{ err error }

func Loggable(err error) slog.LogValuer { return loggable{err: err} }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("message", l.err.Error()),
		slog.Any("chain", ErrorChainStrings(l.err)),
	}
	if kind := KindOf(l.err); kind != KindUnknown {
		attrs = append(attrs, slog.String("kind", string(kind)))
	}

	return slog.GroupValue(attrs...)
}

// ErrorChainStrings returns the unwrap chain as strings (outer -> inner).
// Links that add no text, such as kind tags, are folded into the next one.
func ErrorChainStrings(err error) []string {
	if err == nil {
		return nil
	}

	out := make([]string, 0, 8)
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if len(out) > 0 && out[len(out)-1] == msg {
			continue
		}
		out = append(out, msg)
	}
	return out
}
