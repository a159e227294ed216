// Package apperror defines the closed set of error kinds the services
// return, so the API layer can map failures to HTTP statuses without
// matching on message strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnsupportedQuestionType
	KindNotSubjective
	KindScoreOutOfRange
	KindInvalidState
)

// Error is a tagged application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func UnsupportedQuestionType(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupportedQuestionType, Msg: fmt.Sprintf(format, args...)}
}

func NotSubjective(format string, args ...any) *Error {
	return &Error{Kind: KindNotSubjective, Msg: fmt.Sprintf(format, args...)}
}

func ScoreOutOfRange(format string, args ...any) *Error {
	return &Error{Kind: KindScoreOutOfRange, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState marks a lifecycle transition the current record state does
// not allow.
func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the kind from any error in the chain; unwrapped errors are
// treated as internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to the transport status the API layer
// should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupportedQuestionType, KindNotSubjective:
		return http.StatusBadRequest
	case KindScoreOutOfRange:
		return http.StatusUnprocessableEntity
	case KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
