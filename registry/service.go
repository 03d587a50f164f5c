package registry

import (
	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence"
)

type Registry interface {
	SaveWizard(wz model.Wizard) error
	DeleteWizard(name string) error
	GetWizard(name string) (*model.Wizard, error)
	ListWizards() ([]string, error)
	GetStep(wizard string, stepId string) (*model.StepDef, error)
}

type RegistryImpl struct {
	storage persistence.MetadataStorage
}

func NewRegistry(storage persistence.MetadataStorage) Registry {
	return &RegistryImpl{
		storage: storage,
	}
}

func (r *RegistryImpl) SaveWizard(wz model.Wizard) error {
	if err := ValidateWizard(wz); err != nil {
		return err
	}
	return r.storage.SaveWizard(wz)
}

func (r *RegistryImpl) DeleteWizard(name string) error {
	return r.storage.DeleteWizard(name)
}

func (r *RegistryImpl) GetWizard(name string) (*model.Wizard, error) {
	return r.storage.GetWizard(name)
}

func (r *RegistryImpl) ListWizards() ([]string, error) {
	return r.storage.ListWizards()
}

func (r *RegistryImpl) GetStep(wizard string, stepId string) (*model.StepDef, error) {
	wz, err := r.storage.GetWizard(wizard)
	if err != nil {
		return nil, err
	}
	for i := range wz.Steps {
		if wz.Steps[i].Id == stepId {
			return &wz.Steps[i], nil
		}
	}
	return nil, UnknownStepError{Wizard: wizard, Step: stepId}
}
