package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/huangsam/codecritic/schema"
)

// ErrorKind classifies a failed model call for user-facing reporting.
type ErrorKind string

// All error kinds.
const (
	KindTimeout     ErrorKind = "timeout"
	KindQuota       ErrorKind = "quota"
	KindUnavailable ErrorKind = "unavailable"
	KindOther       ErrorKind = "other"
)

// User-facing messages per kind.
const (
	TimeoutMessage     = "AI analysis timed out. This can happen with very long code. Try with shorter code or try again."
	QuotaMessage       = "API quota exceeded. Please try again in a few moments."
	UnavailableMessage = "AI service is not available. Configure an AI provider or try again later."
)

// ClassifiedError wraps a model failure with its kind and a user-facing message.
type ClassifiedError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// HTTPStatus maps the kind to the status a transport adapter should return.
func (e *ClassifiedError) HTTPStatus() int {
	switch e.Kind {
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindQuota:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Status maps the kind to the status recorded in a review's ai_status.
func (e *ClassifiedError) Status() schema.AIStatus {
	switch e.Kind {
	case KindTimeout:
		return schema.AIStatusTimeout
	case KindQuota:
		return schema.AIStatusQuota
	case KindUnavailable:
		return schema.AIStatusUnavailable
	default:
		return schema.AIStatusError
	}
}

// Classify sorts an error into timeout, quota, unavailable or other. SDK
// errors are matched on their text since providers report limits differently.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return &ClassifiedError{Kind: KindUnavailable, Message: UnavailableMessage, Err: err}
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline exceeded"):
		return &ClassifiedError{Kind: KindTimeout, Message: TimeoutMessage, Err: err}
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "limit"),
		strings.Contains(msg, "429"):
		return &ClassifiedError{Kind: KindQuota, Message: QuotaMessage, Err: err}
	default:
		return &ClassifiedError{Kind: KindOther, Message: "AI analysis failed: " + err.Error(), Err: err}
	}
}
