package flow

import (
	"context"
	"sync"

	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence"
	"github.com/budstack/stepflow/registry"
	"github.com/budstack/stepflow/util"
	"github.com/budstack/stepflow/validation"
	"go.uber.org/zap"
)

// SessionMachine drives one wizard instance. All mutation of the session
// context goes through it; consumers only ever see copies. A mutex guards
// the context, released while a submission awaits the gateway so UpdateField
// stays usable. At most one submission is in flight per machine: a second
// Advance during one returns a busy outcome, Back and JumpTo are rejected
// with ErrSubmissionInFlight.
type SessionMachine struct {
	mu        sync.Mutex
	wizard    *model.Wizard
	steps     map[string]*model.StepDef
	sessCtx   *model.SessionContext
	gateway   Gateway
	storage   persistence.SessionStorage
	discarded bool
}

func NewSessionMachine(wz *model.Wizard, sessCtx *model.SessionContext, gateway Gateway, storage persistence.SessionStorage) *SessionMachine {
	steps := make(map[string]*model.StepDef)
	for i := range wz.Steps {
		steps[wz.Steps[i].Id] = &wz.Steps[i]
	}
	return &SessionMachine{
		wizard:  wz,
		steps:   steps,
		sessCtx: sessCtx,
		gateway: gateway,
		storage: storage,
	}
}

// InitSessionContext builds the context of a fresh session positioned on the
// root step, with the caller-supplied input as the starting payload.
func InitSessionContext(wz *model.Wizard, sessionId string, input map[string]any) *model.SessionContext {
	payload := make(map[string]any)
	for k, v := range input {
		payload[k] = v
	}
	return &model.SessionContext{
		Id:          sessionId,
		Wizard:      wz.Name,
		CurrentStep: wz.RootStep,
		Payload:     payload,
		FieldErrors: make(map[string]model.ErrorKind),
		Submission:  model.SUBMISSION_IDLE,
		History:     []string{},
	}
}

func (m *SessionMachine) GetExecution() model.SessionExecution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.SessionExecution{
		Id:          m.sessCtx.Id,
		Wizard:      m.sessCtx.Wizard,
		CurrentStep: m.sessCtx.CurrentStep,
		Payload:     copyMap(m.sessCtx.Payload),
		FieldErrors: copyErrors(m.sessCtx.FieldErrors),
		Submission:  m.sessCtx.Submission,
		History:     append([]string{}, m.sessCtx.History...),
		Completed:   m.sessCtx.Completed,
	}
}

// UpdateField merges one field into the payload. It never navigates, never
// talks to the gateway and always succeeds apart from storage failures.
func (m *SessionMachine) UpdateField(field string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discarded {
		return ErrSessionDiscarded
	}
	m.sessCtx.Payload[field] = value
	m.sessCtx.Version++
	return m.save()
}

func (m *SessionMachine) Advance(ctx context.Context) (*AdvanceOutcome, error) {
	m.mu.Lock()
	if m.discarded {
		m.mu.Unlock()
		return nil, ErrSessionDiscarded
	}
	if m.sessCtx.Completed {
		step := m.sessCtx.CurrentStep
		m.mu.Unlock()
		return &AdvanceOutcome{Status: ADVANCE_COMPLETED, Step: step}, nil
	}
	if m.sessCtx.Submission == model.SUBMISSION_SUBMITTING {
		step := m.sessCtx.CurrentStep
		m.mu.Unlock()
		return &AdvanceOutcome{Status: ADVANCE_BUSY, Step: step}, nil
	}
	step, ok := m.steps[m.sessCtx.CurrentStep]
	if !ok {
		m.mu.Unlock()
		return nil, registry.UnknownStepError{Wizard: m.sessCtx.Wizard, Step: m.sessCtx.CurrentStep}
	}
	fieldErrors := validation.Validate(step, m.sessCtx.Payload)
	m.sessCtx.FieldErrors = fieldErrors
	if len(fieldErrors) > 0 {
		m.sessCtx.Version++
		err := m.save()
		outcome := &AdvanceOutcome{Status: ADVANCE_INVALID, Step: step.Id, Errors: copyErrors(fieldErrors)}
		m.mu.Unlock()
		return outcome, err
	}
	if !step.Submit {
		outcome, err := m.moveForward(step)
		m.mu.Unlock()
		return outcome, err
	}
	m.sessCtx.Submission = model.SUBMISSION_SUBMITTING
	m.sessCtx.Version++
	if err := m.save(); err != nil {
		m.sessCtx.Submission = model.SUBMISSION_IDLE
		m.mu.Unlock()
		return nil, err
	}
	payload := copyMap(m.sessCtx.Payload)
	wizardName := m.sessCtx.Wizard
	m.mu.Unlock()

	result, submitErr := m.gateway.Submit(ctx, wizardName, step.Id, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discarded {
		// session closed while the submission was in flight, drop the result
		logger.Debug("dropping gateway result for discarded session", zap.String("sessionId", m.sessCtx.Id))
		return nil, ErrSessionDiscarded
	}
	if submitErr != nil || !result.Success {
		errorMessage := ""
		if submitErr != nil {
			errorMessage = submitErr.Error()
		} else {
			errorMessage = result.ErrorMessage
		}
		m.sessCtx.Submission = model.SUBMISSION_FAILED
		m.sessCtx.Version++
		err := m.save()
		logger.Info("step submission failed", zap.String("wizard", m.sessCtx.Wizard),
			zap.String("sessionId", m.sessCtx.Id), zap.String("step", step.Id), zap.String("error", errorMessage))
		return &AdvanceOutcome{Status: ADVANCE_SUBMISSION_FAILED, Step: step.Id, ErrorMessage: errorMessage}, err
	}
	// server is authoritative for the fields it returns
	for k, v := range result.Data {
		m.sessCtx.Payload[k] = v
	}
	m.sessCtx.Submission = model.SUBMISSION_SUCCEEDED
	return m.moveForward(step)
}

func (m *SessionMachine) moveForward(step *model.StepDef) (*AdvanceOutcome, error) {
	nextId := resolveNext(step, m.sessCtx.Payload)
	m.sessCtx.Version++
	if len(nextId) == 0 {
		m.sessCtx.Completed = true
		err := m.save()
		logger.Info("wizard completed", zap.String("wizard", m.sessCtx.Wizard), zap.String("sessionId", m.sessCtx.Id))
		return &AdvanceOutcome{Status: ADVANCE_COMPLETED, Step: step.Id}, err
	}
	m.sessCtx.History = append(m.sessCtx.History, step.Id)
	m.sessCtx.CurrentStep = nextId
	m.sessCtx.FieldErrors = make(map[string]model.ErrorKind)
	m.applyPrefill(m.steps[nextId])
	err := m.save()
	return &AdvanceOutcome{Status: ADVANCE_OK, Step: nextId}, err
}

// Back pops the last visited step. The payload survives back-navigation so a
// user can revisit and resubmit without re-entering anything. With an empty
// history this is a no-op.
func (m *SessionMachine) Back() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discarded {
		return "", ErrSessionDiscarded
	}
	if m.sessCtx.Submission == model.SUBMISSION_SUBMITTING {
		return "", ErrSubmissionInFlight
	}
	if len(m.sessCtx.History) == 0 {
		return m.sessCtx.CurrentStep, nil
	}
	last := len(m.sessCtx.History) - 1
	previous := m.sessCtx.History[last]
	m.sessCtx.History = m.sessCtx.History[:last]
	m.sessCtx.CurrentStep = previous
	m.sessCtx.Completed = false
	m.sessCtx.FieldErrors = make(map[string]model.ErrorKind)
	m.sessCtx.Version++
	return previous, m.save()
}

// JumpTo moves directly to a named step, e.g. returning to a drawer screen
// after an oauth redirect. Intermediate steps are not validated, but the
// destination's precondition fields must already be in the payload.
func (m *SessionMachine) JumpTo(stepId string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discarded {
		return "", ErrSessionDiscarded
	}
	if m.sessCtx.Submission == model.SUBMISSION_SUBMITTING {
		return "", ErrSubmissionInFlight
	}
	step, ok := m.steps[stepId]
	if !ok {
		return "", registry.UnknownStepError{Wizard: m.sessCtx.Wizard, Step: stepId}
	}
	var missing []string
	for _, field := range step.Preconditions {
		if _, present := m.sessCtx.Payload[field]; !present {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return "", PreconditionError{Step: stepId, Missing: missing}
	}
	if stepId != m.sessCtx.CurrentStep {
		m.sessCtx.History = append(m.sessCtx.History, m.sessCtx.CurrentStep)
		m.sessCtx.CurrentStep = stepId
	}
	m.sessCtx.Completed = false
	m.sessCtx.FieldErrors = make(map[string]model.ErrorKind)
	m.sessCtx.Version++
	m.applyPrefill(step)
	return stepId, m.save()
}

// Discard abandons the session. An in-flight submission is not cancelled;
// its eventual resolution sees the flag and becomes a no-op.
func (m *SessionMachine) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = true
}

func (m *SessionMachine) applyRootPrefill() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyPrefill(m.steps[m.sessCtx.CurrentStep])
}

func (m *SessionMachine) applyPrefill(step *model.StepDef) {
	if step == nil || len(step.Prefill) == 0 {
		return
	}
	resolved := util.ResolveParams(m.sessCtx.Payload, step.Prefill)
	for k, v := range resolved {
		if _, present := m.sessCtx.Payload[k]; !present {
			m.sessCtx.Payload[k] = v
		}
	}
}

func (m *SessionMachine) save() error {
	return m.storage.SaveSessionContext(m.sessCtx.Wizard, m.sessCtx.Id, m.sessCtx)
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyErrors(in map[string]model.ErrorKind) map[string]model.ErrorKind {
	out := make(map[string]model.ErrorKind, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
