// Package stage defines the uniform success/failure envelope returned by
// every provider call and every pipeline stage, together with the error
// classification the orchestrator branches on.
package stage

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Class identifies why a stage failed. An empty class means success.
type Class string

const (
	ClassNone            Class = ""
	ClassNoCredential    Class = "NO_CREDENTIAL"
	ClassTimeout         Class = "TIMEOUT"
	ClassNetworkError    Class = "NETWORK_ERROR"
	ClassHTTP4XX         Class = "HTTP_4XX"
	ClassHTTP5XX         Class = "HTTP_5XX"
	ClassParseError      Class = "PARSE_ERROR"
	ClassNoContent       Class = "NO_CONTENT"
	ClassNoImageData     Class = "NO_IMAGE_DATA"
	ClassEncoderNotFound Class = "ENCODER_NOT_FOUND"
	ClassRenderFailed    Class = "RENDER_FAILED"
	ClassRateLimited     Class = "RATE_LIMITED"
)

// Terminal reports whether retrying the same call can ever change the
// outcome. Missing credentials and malformed payloads never heal on retry.
func (c Class) Terminal() bool {
	switch c {
	case ClassNoCredential, ClassParseError, ClassNoContent, ClassNoImageData, ClassHTTP4XX, ClassEncoderNotFound:
		return true
	}
	return false
}

// Result is the envelope for one stage invocation. When OK is false the
// payload is the zero value and must not be read.
type Result[T any] struct {
	OK           bool
	Payload      T
	UsedFallback bool
	Class        Class
	Err          string
	Elapsed      time.Duration
}

// Succeed wraps a payload in a successful result.
func Succeed[T any](payload T, elapsed time.Duration) Result[T] {
	return Result[T]{OK: true, Payload: payload, Elapsed: elapsed}
}

// Fallback wraps a deterministic substitute payload. The result is
// successful but flagged so callers can surface degraded output.
func Fallback[T any](payload T, elapsed time.Duration) Result[T] {
	return Result[T]{OK: true, Payload: payload, UsedFallback: true, Elapsed: elapsed}
}

// Fail builds a classified failure.
func Fail[T any](class Class, err error, elapsed time.Duration) Result[T] {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Result[T]{Class: class, Err: msg, Elapsed: elapsed}
}

// Failf builds a classified failure from a plain message.
func Failf[T any](class Class, msg string, elapsed time.Duration) Result[T] {
	return Result[T]{Class: class, Err: msg, Elapsed: elapsed}
}

// ClassifyTransport maps a transport-level error from http.Client.Do to a
// class. Context expiry counts as a timeout, everything else as a network
// failure.
func ClassifyTransport(err error) Class {
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return ClassTimeout
	}
	return ClassNetworkError
}

// ClassifyStatus maps a non-2xx HTTP status to a class.
func ClassifyStatus(status int) Class {
	if status >= http.StatusInternalServerError {
		return ClassHTTP5XX
	}
	return ClassHTTP4XX
}

// RetryableStatus reports whether a provider status code is worth one more
// attempt: 429 and all 5xx, nothing else.
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
