// Package walleterr classifies errors raised by the wallet core so callers
// can distinguish configuration mistakes from remote failures without
// string-matching.
package walleterr

import "fmt"

// Kind classifies a wallet error for callers that need to branch on it
// (e.g. a shell deciding whether to retry or surface a message verbatim).
type Kind int

const (
	// Config covers network construction failures (e.g. a Custom network
	// with no URL).
	Config Kind = iota
	// Input covers malformed user-supplied values (amounts, filters,
	// addresses).
	Input
	// Signing covers a signer rejecting or failing to produce a signature.
	Signing
	// RemoteUnavailable covers transport-level RPC failures.
	RemoteUnavailable
	// RemoteRejected covers a dry-run or execute response that carries an
	// on-chain error payload.
	RemoteRejected
	// NotFound covers a missing transaction or unsupported endpoint.
	NotFound
	// Overflow covers nano arithmetic that would not fit in 64 bits.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "Config"
	case Input:
		return "Input"
	case Signing:
		return "Signing"
	case RemoteUnavailable:
		return "RemoteUnavailable"
	case RemoteRejected:
		return "RemoteRejected"
	case NotFound:
		return "NotFound"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// Error is the wallet core's error type. An error wrapped in one of these
// can be classified with errors.As and still gives a readable message and,
// via Unwrap, the original cause. The rpc package's Transport and Client
// implementations return plain errors; the network client wraps them.
type Error struct {
	Kind    Kind
	Context string // names the operation, e.g. "send_iota", "get_stakes"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		if e.Context != "" {
			return fmt.Sprintf("%s: %s: %s", e.Context, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with no wrapped cause.
func New(kind Kind, context, message string) *Error {
	return &Error{Kind: kind, Context: context, Message: message}
}

// Wrap builds an Error decorating cause with a context string naming the
// failing operation, per spec.md §7 ("every RPC failure is decorated with a
// context string naming the operation").
func Wrap(kind Kind, context string, cause error) *Error {
	if cause == nil {
		return nil
	}
	if existing, ok := cause.(*Error); ok && existing.Context == "" {
		existing.Context = context
		return existing
	}
	return &Error{Kind: kind, Context: context, Message: cause.Error(), Cause: cause}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
