package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/budstack/stepflow/model"
)

type AdvanceStatus string

const (
	ADVANCE_OK                AdvanceStatus = "advanced"
	ADVANCE_COMPLETED         AdvanceStatus = "completed"
	ADVANCE_INVALID           AdvanceStatus = "invalid"
	ADVANCE_BUSY              AdvanceStatus = "busy"
	ADVANCE_SUBMISSION_FAILED AdvanceStatus = "submission_failed"
)

// AdvanceOutcome is the value result of Advance. Validation failures,
// submission failures and the busy rejection are expected user-facing
// outcomes, not errors.
type AdvanceOutcome struct {
	Status       AdvanceStatus              `json:"status"`
	Step         string                     `json:"step"`
	Errors       map[string]model.ErrorKind `json:"errors,omitempty"`
	ErrorMessage string                     `json:"errorMessage,omitempty"`
}

// ErrSubmissionInFlight rejects Back and JumpTo while a submission is
// awaiting the gateway. Queueing them instead would race the submission's
// state update; rejection is the documented policy.
var ErrSubmissionInFlight = errors.New("submission in flight")

// ErrSessionDiscarded marks a machine whose session was closed or evicted;
// any late gateway resolution for it is dropped.
var ErrSessionDiscarded = errors.New("session discarded")

// PreconditionError rejects a jump whose destination depends on fields not
// yet present in the payload.
type PreconditionError struct {
	Step    string
	Missing []string
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("step %s preconditions not satisfied, missing fields: %s", e.Step, strings.Join(e.Missing, ","))
}
