package expense

import (
	"errors"
	"fmt"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

type FailureReason string

const (
	// MalformedOutput: the model answered but never produced parseable
	// structured output within the retry bound.
	MalformedOutput FailureReason = "malformed_output"
	// ProviderError: the completion endpoint itself failed; not retried here.
	ProviderError FailureReason = "provider_error"
	// Timeout: the completion call exceeded the configured deadline.
	Timeout FailureReason = "timeout"
)

// ExtractionError is a transient failure of the extraction stage. It never
// consumes a clarification retry slot and leaves dialog state untouched.
type ExtractionError struct {
	Reason FailureReason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func AsExtractionError(err error) (*ExtractionError, bool) {
	var extErr *ExtractionError
	ok := errors.As(err, &extErr)
	return extErr, ok
}

// ClarificationContext carries the stored partial and the fields the next
// extraction attempt should focus on.
type ClarificationContext struct {
	Prior   entity.CandidateTransaction
	Missing []string
	Invalid map[string]string
}

// ValidationResult is either a normalized transaction draft or the collected
// set of missing and invalid fields.
type ValidationResult struct {
	Transaction *entity.Transaction
	Missing     []string
	Invalid     map[string]string
}

func (r ValidationResult) Valid() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// Fields lists every field the clarification prompt must address.
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r.Missing)+len(r.Invalid))
	fields = append(fields, r.Missing...)
	for field := range r.Invalid {
		fields = append(fields, field)
	}
	return fields
}
