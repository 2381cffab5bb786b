package engine

import (
	"errors"
	"fmt"
	"strings"
)

// RetryClass indicates whether an error should be retried.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"
	RetryClassMaybe        RetryClass = "maybe" // retry with caution (limited attempts)
	RetryClassNonRetryable RetryClass = "non_retryable"
)

// ModelCallError wraps a failure of the model collaborator. It is the only
// fatal error of the loop: the run aborts with StatusError and the error is
// propagated to the caller alongside the partial report.
type ModelCallError struct {
	Err      error
	Round    int
	Attempts int
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed (round=%d attempts=%d): %v", e.Round, e.Attempts, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// IsModelCallError checks whether err originated in the model collaborator.
func IsModelCallError(err error) bool {
	var mce *ModelCallError
	return errors.As(err, &mce)
}

// ClassifyModelError classifies an error from a provider call for retry
// purposes. Unknown errors are not retried.
func ClassifyModelError(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	errStr := strings.ToLower(err.Error())

	// Rate limits (429) - retryable, respect Retry-After
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return RetryClassRetryable
	}

	// Server errors (5xx) - retryable
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return RetryClassRetryable
	}

	// Network errors - retryable
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "temporary failure") {
		return RetryClassRetryable
	}

	// Context deadline exceeded - maybe (limited retries)
	if strings.Contains(errStr, "deadline exceeded") {
		return RetryClassMaybe
	}

	// Context overflow - maybe (compaction should have prevented this)
	if strings.Contains(errStr, "context length") ||
		strings.Contains(errStr, "token limit") ||
		strings.Contains(errStr, "maximum context length") {
		return RetryClassMaybe
	}

	// Authentication (401/403), bad request (400), quota (402) - non-retryable
	if strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "invalid api key") ||
		strings.Contains(errStr, "400") ||
		strings.Contains(errStr, "bad request") ||
		strings.Contains(errStr, "402") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "billing") {
		return RetryClassNonRetryable
	}

	return RetryClassNonRetryable
}

// RetryExhaustedError indicates that all retry attempts have been used.
type RetryExhaustedError struct {
	Err         error
	Attempts    int
	MaxAttempts int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// IsRetryExhausted checks if an error is a RetryExhaustedError.
func IsRetryExhausted(err error) bool {
	var ree *RetryExhaustedError
	return errors.As(err, &ree)
}

// ToolValidationError indicates that tool arguments failed JSON schema
// validation. It is absorbed by the dispatcher into an error result, never
// raised out of the loop.
type ToolValidationError struct {
	ToolName string
	Errors   []string
}

func (e *ToolValidationError) Error() string {
	return fmt.Sprintf("tool %s validation failed: %s", e.ToolName, strings.Join(e.Errors, "; "))
}

// RunContextError wraps errors with execution context for debugging.
type RunContextError struct {
	Err       error
	Round     int
	Operation string // "model_call", "compaction", ...
}

func (e *RunContextError) Error() string {
	return fmt.Sprintf("[round=%d op=%s] %v", e.Round, e.Operation, e.Err)
}

func (e *RunContextError) Unwrap() error { return e.Err }
