package registry

import (
	"testing"
	"time"

	"github.com/budstack/stepflow/persistence/inmem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const guardrailYaml = `
name: guardrail-create
rootStep: classification
steps:
  - id: classification
    requiredFields: [category, severity]
    fields:
      - name: category
        type: enum
        values: [hate_speech, self_harm, jailbreak]
      - name: severity
        type: number
        min: 0
        max: 10
    next:
      default: output-mode
  - id: output-mode
    previous: classification
    next:
      switch: "{$.payload.structured_output_enabled}"
      cases:
        "true": schema-editor
        "false": review
      default: review
  - id: schema-editor
    previous: output-mode
    next:
      default: review
  - id: review
    previous: output-mode
    submit: true
`

func TestLoadDefinitions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/etc/stepflow/wizards", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/etc/stepflow/wizards/guardrail.yaml", []byte(guardrailYaml), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/stepflow/wizards/notes.txt", []byte("ignored"), 0o644))

	reg := NewRegistry(inmem.NewInmemStorage(time.Minute))
	require.NoError(t, LoadDefinitions(fs, "/etc/stepflow/wizards", reg))

	wz, err := reg.GetWizard("guardrail-create")
	require.NoError(t, err)
	require.Equal(t, "classification", wz.RootStep)
	require.Len(t, wz.Steps, 4)
	require.Equal(t, "schema-editor", wz.Steps[1].Next.Cases["true"])
}

func TestLoadDefinitionsInvalidYaml(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/wizards", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/wizards/broken.yaml", []byte("steps: {not: [valid"), 0o644))

	reg := NewRegistry(inmem.NewInmemStorage(time.Minute))
	require.Error(t, LoadDefinitions(fs, "/wizards", reg))
}

func TestLoadDefinitionsInvalidDefinition(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/wizards", 0o755))
	yaml := "name: broken\nrootStep: missing\nsteps:\n  - id: only\n"
	require.NoError(t, afero.WriteFile(fs, "/wizards/broken.yaml", []byte(yaml), 0o644))

	reg := NewRegistry(inmem.NewInmemStorage(time.Minute))
	err := LoadDefinitions(fs, "/wizards", reg)
	require.Error(t, err)
	_, ok := err.(DefinitionError)
	require.True(t, ok)
}

func TestLoadDefinitionsMissingDir(t *testing.T) {
	reg := NewRegistry(inmem.NewInmemStorage(time.Minute))
	require.Error(t, LoadDefinitions(afero.NewMemMapFs(), "/does-not-exist", reg))
}
