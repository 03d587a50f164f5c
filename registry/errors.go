package registry

import "fmt"

// UnknownStepError signals a lookup of a step id that is not part of the
// wizard definition. It indicates a misconfigured deployment or a programming
// defect, never a recoverable user condition, so callers must surface it
// rather than swallow it.
type UnknownStepError struct {
	Wizard string
	Step   string
}

func (e UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step %s in wizard %s", e.Step, e.Wizard)
}

// DefinitionError rejects a wizard definition at registration time.
type DefinitionError struct {
	Wizard  string
	Message string
}

func (e DefinitionError) Error() string {
	return fmt.Sprintf("invalid wizard definition %s: %s", e.Wizard, e.Message)
}
