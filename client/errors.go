package client

import (
	"errors"
	"fmt"

	"shortlink-admin/types"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindAuth is an HTTP 401.
	KindAuth
	// KindBusiness is a 2xx response whose envelope code is not a success code.
	KindBusiness
	// KindHTTP is any other non-2xx response.
	KindHTTP
	// KindDecode means the response body could not be read as an envelope.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindBusiness:
		return "business"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBusiness     = errors.New("business error")
	ErrHTTP         = errors.New("http error")
	ErrDecode       = errors.New("malformed response")
)

// Error is returned for every rejected call.
type Error struct {
	Kind      Kind
	Status    int
	Code      types.Code
	Message   string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Code != "":
		return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error: status %d", e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrBusiness:
		return e.Kind == KindBusiness
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// CodeOf returns the envelope code carried by err, if any.
func CodeOf(err error) types.Code {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
