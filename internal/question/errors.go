package question

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the transport layer can pick a status.
type Kind int

const (
	// KindUnexpected is anything not classified below.
	KindUnexpected Kind = iota
	// KindRequestMalformed is structurally invalid input.
	KindRequestMalformed
	// KindNotFound is a well-formed listing whose result set is empty.
	KindNotFound
	// KindBusinessRule is a well-formed request that fails a domain rule.
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindRequestMalformed:
		return "request_malformed"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule_violation"
	default:
		return "unexpected"
	}
}

// Error is the typed failure returned by Service operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Malformed reports structurally invalid input.
func Malformed(op, format string, args ...any) error {
	return &Error{Kind: KindRequestMalformed, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotFound reports an empty result set.
func NotFound(op, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

// BusinessRule reports a domain rule violation.
func BusinessRule(op, format string, args ...any) error {
	return &Error{Kind: KindBusinessRule, Op: op, Err: fmt.Errorf(format, args...)}
}

// Unexpected wraps a failure the service cannot classify, typically a store error.
func Unexpected(op string, err error) error {
	return &Error{Kind: KindUnexpected, Op: op, Err: err}
}

// KindOf extracts the Kind of err. Unclassified errors are KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
