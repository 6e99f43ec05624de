package homework

import (
	"errors"
	"fmt"
)

// Kind classifies failures of the polling loop.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigurationMissing
	KindEndpointUnreachable
	KindMalformedResponse
	KindUnrecognizedStatus
	KindRecordMalformed
	KindDeliveryFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindEndpointUnreachable:
		return "endpoint_unreachable"
	case KindMalformedResponse:
		return "malformed_response"
	case KindUnrecognizedStatus:
		return "unrecognized_status"
	case KindRecordMalformed:
		return "record_malformed"
	case KindDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by the homework pipeline.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind       Kind
	Message    string
	Endpoint   string // KindEndpointUnreachable
	StatusCode int    // KindEndpointUnreachable, 0 for transport failures
	Field      string // KindRecordMalformed, KindConfigurationMissing
	Value      string // KindUnrecognizedStatus
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrConfigurationMissing = &Error{Kind: KindConfigurationMissing}
	ErrEndpointUnreachable  = &Error{Kind: KindEndpointUnreachable}
	ErrMalformedResponse    = &Error{Kind: KindMalformedResponse}
	ErrUnrecognizedStatus   = &Error{Kind: KindUnrecognizedStatus}
	ErrRecordMalformed      = &Error{Kind: KindRecordMalformed}
	ErrDeliveryFailed       = &Error{Kind: KindDeliveryFailed}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func NewConfigurationMissing(variable string) *Error {
	return &Error{
		Kind:    KindConfigurationMissing,
		Message: fmt.Sprintf("Отсутствует обязательная переменная окружения: %s", variable),
		Field:   variable,
	}
}

func NewEndpointStatus(endpoint string, code int) *Error {
	return &Error{
		Kind:       KindEndpointUnreachable,
		Message:    fmt.Sprintf("Эндпоинт %s недоступен. Код ответа API: %d", endpoint, code),
		Endpoint:   endpoint,
		StatusCode: code,
	}
}

func NewEndpointFailure(endpoint string, err error) *Error {
	return &Error{
		Kind:     KindEndpointUnreachable,
		Message:  fmt.Sprintf("Эндпоинт %s недоступен: %v", endpoint, err),
		Endpoint: endpoint,
		Err:      err,
	}
}

func NewMalformedResponse(msg string, err error) *Error {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &Error{Kind: KindMalformedResponse, Message: msg, Err: err}
}

func NewUnrecognizedStatus(value string) *Error {
	return &Error{
		Kind:    KindUnrecognizedStatus,
		Message: fmt.Sprintf("недокументированный статус домашней работы, обнаруженный в ответе API: %s", value),
		Value:   value,
	}
}

func NewRecordMalformed(field string) *Error {
	msg := "домашняя работа приходит не в виде словаря"
	if field != "" {
		msg = fmt.Sprintf("в домашней работе отсутствует ключ %q", field)
	}
	return &Error{Kind: KindRecordMalformed, Message: msg, Field: field}
}

func NewDeliveryFailed(err error) *Error {
	return &Error{
		Kind:    KindDeliveryFailed,
		Message: fmt.Sprintf("Бот не смог отправить сообщение: %v", err),
		Err:     err,
	}
}
