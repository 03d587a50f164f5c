package model

type SubmissionState string

const (
	SUBMISSION_IDLE       SubmissionState = "idle"
	SUBMISSION_SUBMITTING SubmissionState = "submitting"
	SUBMISSION_SUCCEEDED  SubmissionState = "succeeded"
	SUBMISSION_FAILED     SubmissionState = "failed"
)

type ErrorKind string

const (
	ERROR_REQUIRED       ErrorKind = "required"
	ERROR_TYPE_MISMATCH  ErrorKind = "type_mismatch"
	ERROR_OUT_OF_BOUNDS  ErrorKind = "out_of_bounds"
	ERROR_NOT_IN_ENUM    ErrorKind = "not_in_enum"
	ERROR_INVALID_UUID   ErrorKind = "invalid_uuid"
	ERROR_RANGE_INVERTED ErrorKind = "range_inverted"
	ERROR_REJECTED       ErrorKind = "rejected"
)

// SessionContext is the full mutable record of one wizard instance. It is
// owned by the session machine; everything else reads copies.
type SessionContext struct {
	Id          string               `json:"id"`
	Wizard      string               `json:"wizard"`
	CurrentStep string               `json:"currentStep"`
	Payload     map[string]any       `json:"payload"`
	FieldErrors map[string]ErrorKind `json:"fieldErrors"`
	Submission  SubmissionState      `json:"submissionState"`
	History     []string             `json:"history"`
	Version     int64                `json:"version"`
	Completed   bool                 `json:"completed"`
}

type SessionExecution struct {
	Id          string               `json:"id"`
	Wizard      string               `json:"wizard"`
	CurrentStep string               `json:"currentStep"`
	Payload     map[string]any       `json:"payload"`
	FieldErrors map[string]ErrorKind `json:"fieldErrors"`
	Submission  SubmissionState      `json:"submissionState"`
	History     []string             `json:"history"`
	Completed   bool                 `json:"completed"`
}
