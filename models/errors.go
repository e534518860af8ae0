// Package models holds the domain types and error vocabulary shared by every
// layer of cryptostego: the core pipeline, the CLI, and the HTTP API.
package models

import "errors"

// ErrorKind distinguishes the user-visible failure modes of spec §7 from one
// another so callers (CLI, HTTP handlers) can map them to exit codes or
// status codes without string-matching error text.
type ErrorKind string

const (
	KindAuthFail           ErrorKind = "AuthFail"
	KindCoverTooSmall      ErrorKind = "CoverTooSmall"
	KindUnsupportedFormat  ErrorKind = "UnsupportedFormat"
	KindMalformedSidecar   ErrorKind = "MalformedSidecar"
	KindMalformedCover     ErrorKind = "MalformedCover"
	KindModeMismatch       ErrorKind = "ModeMismatch"
	KindOutputExists       ErrorKind = "OutputExists"
	KindShortRead          ErrorKind = "ShortRead"
	KindOversizeHeader     ErrorKind = "OversizeHeader"
)

// KindedError is a recoverable, user-visible error that carries the
// responsible kind and, where relevant, the path or field that triggered it.
type KindedError struct {
	Kind    ErrorKind
	Detail  string
	Wrapped error
}

func (e *KindedError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

func (e *KindedError) Unwrap() error { return e.Wrapped }

// NewError builds a KindedError with an optional wrapped cause.
func NewError(kind ErrorKind, detail string, wrapped error) *KindedError {
	return &KindedError{Kind: kind, Detail: detail, Wrapped: wrapped}
}

// Is lets errors.Is(err, ErrAuthFail) style sentinels keep working alongside
// KindedError's structured Kind field.
func (e *KindedError) Is(target error) bool {
	ke, ok := target.(*KindedError)
	if !ok {
		return false
	}
	return ke.Kind == e.Kind
}

// KindOf extracts the ErrorKind from err, walking wrapped errors, or returns
// "" if err does not carry one.
func KindOf(err error) ErrorKind {
	var ke *KindedError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return ""
}

// Sentinel instances for errors.Is comparisons against a bare kind, e.g.
// errors.Is(err, ErrAuthFail).
var (
	ErrAuthFail          = &KindedError{Kind: KindAuthFail}
	ErrCoverTooSmall     = &KindedError{Kind: KindCoverTooSmall}
	ErrUnsupportedFormat = &KindedError{Kind: KindUnsupportedFormat}
	ErrMalformedSidecar  = &KindedError{Kind: KindMalformedSidecar}
	ErrMalformedCover    = &KindedError{Kind: KindMalformedCover}
	ErrModeMismatch      = &KindedError{Kind: KindModeMismatch}
	ErrOutputExists      = &KindedError{Kind: KindOutputExists}
	ErrShortRead         = &KindedError{Kind: KindShortRead}
	ErrOversizeHeader    = &KindedError{Kind: KindOversizeHeader}
)
