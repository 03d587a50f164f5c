package persistence

import (
	"fmt"

	"github.com/budstack/stepflow/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

// MetadataStorage holds wizard definitions. Definitions are written through
// the registry only, which validates them first.
type MetadataStorage interface {
	SaveWizard(wz model.Wizard) error
	DeleteWizard(name string) error
	GetWizard(name string) (*model.Wizard, error)
	ListWizards() ([]string, error)
}

// SessionStorage persists session contexts so an open wizard survives a
// process restart or a redirect round-trip.
type SessionStorage interface {
	SaveSessionContext(wizard string, sessionId string, sessCtx *model.SessionContext) error
	GetSessionContext(wizard string, sessionId string) (*model.SessionContext, error)
	DeleteSessionContext(wizard string, sessionId string) error
}
