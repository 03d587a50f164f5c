package flow

import (
	"context"
	"sync"
	"time"

	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence"
	"github.com/budstack/stepflow/registry"
	"github.com/budstack/stepflow/validation"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionService owns the live session machines. Every access refreshes a
// session's expiry, so only sessions idle past the TTL are evicted and
// discarded; a later request reloads them from storage.
type SessionService struct {
	registry registry.Registry
	storage  persistence.SessionStorage
	gateway  Gateway
	live     *cache.Cache

	// serializes first touch of a session missing from live so concurrent
	// requests end up on one machine
	restoreLock sync.Mutex
}

func NewSessionService(reg registry.Registry, storage persistence.SessionStorage, gateway Gateway, sessionTTL time.Duration) *SessionService {
	live := cache.New(sessionTTL, 2*sessionTTL)
	live.OnEvicted(func(sessionId string, value any) {
		value.(*SessionMachine).Discard()
		logger.Debug("evicted idle session", zap.String("sessionId", sessionId))
	})
	return &SessionService{
		registry: reg,
		storage:  storage,
		gateway:  gateway,
		live:     live,
	}
}

func (s *SessionService) CreateSession(wizard string, input map[string]any) (*model.SessionExecution, error) {
	wz, err := s.registry.GetWizard(wizard)
	if err != nil {
		return nil, err
	}
	sessionId := uuid.New().String()
	sessCtx := InitSessionContext(wz, sessionId, input)
	machine := NewSessionMachine(wz, sessCtx, s.gateway, s.storage)
	machine.applyRootPrefill()
	if err := s.storage.SaveSessionContext(wizard, sessionId, sessCtx); err != nil {
		return nil, err
	}
	s.live.SetDefault(sessionId, machine)
	logger.Info("session created", zap.String("wizard", wizard), zap.String("sessionId", sessionId))
	execution := machine.GetExecution()
	return &execution, nil
}

func (s *SessionService) GetSession(wizard string, sessionId string) (*model.SessionExecution, error) {
	machine, err := s.getMachine(wizard, sessionId)
	if err != nil {
		return nil, err
	}
	execution := machine.GetExecution()
	return &execution, nil
}

func (s *SessionService) UpdateField(wizard string, sessionId string, field string, value any) error {
	machine, err := s.getMachine(wizard, sessionId)
	if err != nil {
		return err
	}
	return machine.UpdateField(field, value)
}

func (s *SessionService) Advance(ctx context.Context, wizard string, sessionId string) (*AdvanceOutcome, error) {
	machine, err := s.getMachine(wizard, sessionId)
	if err != nil {
		return nil, err
	}
	return machine.Advance(ctx)
}

func (s *SessionService) Back(wizard string, sessionId string) (string, error) {
	machine, err := s.getMachine(wizard, sessionId)
	if err != nil {
		return "", err
	}
	return machine.Back()
}

func (s *SessionService) JumpTo(wizard string, sessionId string, stepId string) (string, error) {
	machine, err := s.getMachine(wizard, sessionId)
	if err != nil {
		return "", err
	}
	return machine.JumpTo(stepId)
}

func (s *SessionService) CloseSession(wizard string, sessionId string) error {
	if value, ok := s.live.Get(sessionId); ok {
		value.(*SessionMachine).Discard()
		s.live.Delete(sessionId)
	}
	if err := s.storage.DeleteSessionContext(wizard, sessionId); err != nil {
		return err
	}
	logger.Info("session closed", zap.String("wizard", wizard), zap.String("sessionId", sessionId))
	return nil
}

func (s *SessionService) getMachine(wizard string, sessionId string) (*SessionMachine, error) {
	if value, ok := s.live.Get(sessionId); ok {
		machine := value.(*SessionMachine)
		// push the expiry out so an actively used session is never discarded
		s.live.SetDefault(sessionId, machine)
		return machine, nil
	}
	s.restoreLock.Lock()
	defer s.restoreLock.Unlock()
	if value, ok := s.live.Get(sessionId); ok {
		return value.(*SessionMachine), nil
	}
	machine, err := s.restore(wizard, sessionId)
	if err != nil {
		return nil, err
	}
	s.live.SetDefault(sessionId, machine)
	return machine, nil
}

// restore rebuilds a machine from storage, e.g. after a restart or an oauth
// redirect round-trip. Persisted state is untrusted: the current step must
// still exist in the definition, field errors are recomputed with a fresh
// validation pass, and a submission that was in flight when the state was
// written is marked failed since its outcome is unknown.
func (s *SessionService) restore(wizard string, sessionId string) (*SessionMachine, error) {
	wz, err := s.registry.GetWizard(wizard)
	if err != nil {
		return nil, err
	}
	sessCtx, err := s.storage.GetSessionContext(wizard, sessionId)
	if err != nil {
		return nil, err
	}
	if sessCtx.Payload == nil {
		sessCtx.Payload = make(map[string]any)
	}
	if sessCtx.History == nil {
		sessCtx.History = []string{}
	}
	var step *model.StepDef
	for i := range wz.Steps {
		if wz.Steps[i].Id == sessCtx.CurrentStep {
			step = &wz.Steps[i]
		}
	}
	if step == nil {
		return nil, registry.UnknownStepError{Wizard: wizard, Step: sessCtx.CurrentStep}
	}
	sessCtx.FieldErrors = validation.Validate(step, sessCtx.Payload)
	if sessCtx.Submission == model.SUBMISSION_SUBMITTING {
		sessCtx.Submission = model.SUBMISSION_FAILED
	}
	logger.Info("session restored from storage", zap.String("wizard", wizard), zap.String("sessionId", sessionId))
	return NewSessionMachine(wz, sessCtx, s.gateway, s.storage), nil
}
