package roster

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ErrorKind int

const (
	ErrConnection ErrorKind = iota + 1
	ErrAuth
	ErrNotFound
	ErrProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConnection:
		return "connection error"
	case ErrAuth:
		return "auth error"
	case ErrNotFound:
		return "not found"
	case ErrProtocol:
		return "protocol error"
	default:
		return "unknown error"
	}
}

// Error is the only error type Fetch returns. Message is meant to be shown
// to the user as is.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Code    ErrorCode
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind, so errors.Is(err, &Error{Kind: ErrAuth})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode is the application-level code the admin API puts in error
// bodies. The server may serialize it as a number or as the enum name.
type ErrorCode int

const (
	CodeNone                       ErrorCode = 0
	CodeAuthenticationNotSpecified ErrorCode = 1
	CodeAuthenticationInvalid      ErrorCode = 2
	CodeInvalidActorHeader         ErrorCode = 3
)

var codeNames = map[string]ErrorCode{
	"none":                       CodeNone,
	"authenticationnotspecified": CodeAuthenticationNotSpecified,
	"authenticationinvalid":      CodeAuthenticationInvalid,
	"invalidactorheader":         CodeInvalidActorHeader,
}

// codeMessages lists the codes with a known, more specific meaning than the
// HTTP status that carried them.
var codeMessages = map[ErrorCode]string{
	CodeAuthenticationNotSpecified: "authorization header is missing or malformed",
	CodeAuthenticationInvalid:      "invalid token",
	CodeInvalidActorHeader:         "actor header is missing or malformed",
}

func (c *ErrorCode) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*c = CodeNone
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*c = ErrorCode(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("parse error code: %w", err)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		*c = ErrorCode(n)
		return nil
	}
	code, ok := codeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		// Unknown names still count as "some code"; they just have no
		// specific mapping.
		*c = -1
		return nil
	}
	*c = code
	return nil
}

type errorPayload struct {
	Message   string    `json:"Message"`
	ErrorCode ErrorCode `json:"ErrorCode"`
}

// classifyStatus maps a non-2xx response to an *Error. An app-level code
// with a known meaning wins over the HTTP status.
func classifyStatus(status int, body []byte) *Error {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := codeMessages[payload.ErrorCode]; ok {
			return &Error{Kind: ErrAuth, Message: msg, Status: status, Code: payload.ErrorCode}
		}
	}

	var e *Error
	switch status {
	case 401:
		e = newError(ErrAuth, "invalid token")
	case 403:
		e = newError(ErrAuth, "access denied (possibly a bad token)")
	case 404:
		e = newError(ErrNotFound, "server not found")
	default:
		e = newError(ErrProtocol, "HTTP %d: %s", status, strings.TrimSpace(string(body)))
	}
	e.Status = status
	e.Code = payload.ErrorCode
	return e
}
