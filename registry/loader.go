package registry

import (
	"path/filepath"
	"strings"

	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadDefinitions registers every yaml wizard definition found in dir.
// Invalid definitions fail the load; a deployment should not come up with a
// broken wizard.
func LoadDefinitions(fs afero.Fs, dir string, registry Registry) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := afero.ReadFile(fs, filepath.Join(dir, name))
		if err != nil {
			return err
		}
		var wz model.Wizard
		if err := yaml.Unmarshal(data, &wz); err != nil {
			return DefinitionError{Wizard: name, Message: err.Error()}
		}
		if err := registry.SaveWizard(wz); err != nil {
			return err
		}
		logger.Info("registered wizard definition", zap.String("wizard", wz.Name), zap.String("file", name))
	}
	return nil
}
