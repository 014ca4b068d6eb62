// Package taxonomy defines the small set of error kinds every component
// boundary in this system translates its failures into, per the error
// handling design: transport/codec errors never escape a component raw,
// they cross as one of these.
package taxonomy

import (
	"net/http"

	"emperror.dev/errors"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// Kind is one entry of the error taxonomy.
type Kind string

const (
	KindMalformedMessage  Kind = "MALFORMED_MESSAGE"
	KindUnknownMethod     Kind = "UNKNOWN_METHOD"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindTimeout           Kind = "TIMEOUT"
	KindOperationFailed   Kind = "OPERATION_FAILED"
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindTransportDown     Kind = "TRANSPORT_DOWN"
)

// Error is the typed error every package-boundary failure is translated
// into before it crosses into a caller from another layer.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a taxonomy error of the given kind with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a taxonomy kind to an underlying error, matching the
// teacher's errors.Wrap idiom (environment/docker.go) but producing a typed
// taxonomy.Error instead of a plain wrapped error, so HTTP/wire translation
// can switch on Kind without string matching.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.Wrap(err, message)}
}

// FromReturnCode maps a decoded SOME/IP return code to a taxonomy kind, used
// by the client engine when resolving a pending request against an ERROR
// response.
func FromReturnCode(rc codec.ReturnCode) Kind {
	switch rc {
	case codec.ReturnCodeOK:
		return ""
	case codec.ReturnCodeUnknownMethod:
		return KindUnknownMethod
	case codec.ReturnCodeNotReady:
		return KindServiceUnavailable
	case codec.ReturnCodeTimeout:
		return KindTimeout
	case codec.ReturnCodeMalformedMessage:
		return KindMalformedMessage
	case codec.ReturnCodeWrongMessageType:
		return KindMalformedMessage
	default:
		return KindOperationFailed
	}
}

// ToReturnCode is the inverse mapping, used by the provider-side dispatcher
// when framing an ERROR response.
func ToReturnCode(kind Kind) codec.ReturnCode {
	switch kind {
	case KindUnknownMethod:
		return codec.ReturnCodeUnknownMethod
	case KindServiceUnavailable:
		return codec.ReturnCodeNotReady
	case KindTimeout:
		return codec.ReturnCodeTimeout
	case KindMalformedMessage:
		return codec.ReturnCodeMalformedMessage
	default:
		return codec.ReturnCodeNotOK
	}
}

// HTTPStatus maps a taxonomy kind to the HTTP status the gateway surfaces,
// per spec §4.6/§7. Kinds not reaching the HTTP layer (UnknownMethod,
// never surfaced to REST callers) fall back to 500.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindMalformedMessage, KindInvalidArgument:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusRequestTimeout
	case KindTransportDown:
		return http.StatusServiceUnavailable
	case KindOperationFailed:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// As reports whether err is (or wraps) a *Error, returning it and true if so
// — a thin convenience over errors.As matching the teacher's error-handling
// call sites.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
