// Package apperror carries the error taxonomy shared by services and the
// HTTP error handler. Every error has a machine-readable kind plus a
// human-readable message.
package apperror

import (
	"fmt"
	"strings"
)

type Kind string

const (
	// KindValidation: malformed or oversized input, caller should correct and retry.
	KindValidation Kind = "validation"
	// KindNotFound: target absent or caller unauthorized. The two cases are
	// deliberately indistinguishable so callers can't probe for existence.
	KindNotFound Kind = "not_found"
	// KindAuth: credentials or token invalid.
	KindAuth Kind = "auth"
	// KindUnknownGrantee: some usernames in a share request did not resolve.
	// Partial-success signal, the share still applies to the rest.
	KindUnknownGrantee Kind = "unknown_grantee"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Auth(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

// UnknownGranteeError lists the usernames of a share request that did not
// resolve to any user.
type UnknownGranteeError struct {
	Usernames []string
}

func (e *UnknownGranteeError) Error() string {
	return fmt.Sprintf("unknown grantees: %s", strings.Join(e.Usernames, ", "))
}

func (e *UnknownGranteeError) AppKind() Kind {
	return KindUnknownGrantee
}
