package registry

import (
	"fmt"

	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/util"
	"github.com/budstack/stepflow/validation"
)

// ValidateWizard checks a definition before it is stored. Everything here is
// a registration-time failure so a running session can rely on the graph:
// step ids are unique, every next/previous target resolves, a successful
// advance can never land on the step it left, and every step is reachable
// from the root.
func ValidateWizard(wz model.Wizard) error {
	if len(wz.Name) == 0 {
		return DefinitionError{Wizard: wz.Name, Message: "wizard name can not be empty"}
	}
	if len(wz.Steps) == 0 {
		return DefinitionError{Wizard: wz.Name, Message: "wizard should have at least one step"}
	}
	allSteps := make(map[string]*model.StepDef)
	for i := range wz.Steps {
		step := &wz.Steps[i]
		if len(step.Id) == 0 {
			return DefinitionError{Wizard: wz.Name, Message: "step id can not be empty"}
		}
		if _, ok := allSteps[step.Id]; ok {
			return DefinitionError{Wizard: wz.Name, Message: fmt.Sprintf("step id %s is duplicate", step.Id)}
		}
		allSteps[step.Id] = step
	}
	if _, ok := allSteps[wz.RootStep]; !ok {
		return DefinitionError{Wizard: wz.Name, Message: fmt.Sprintf("no step with root step id %s in wizard", wz.RootStep)}
	}
	for _, step := range allSteps {
		if err := validateStep(wz.Name, step, allSteps); err != nil {
			return err
		}
	}
	if err := validateReachable(wz, allSteps); err != nil {
		return err
	}
	return nil
}

func validateStep(wizard string, step *model.StepDef, allSteps map[string]*model.StepDef) error {
	next := step.Next
	if len(next.Switch) > 0 {
		if err := util.ValidateJsonPathExpr(next.Switch); err != nil {
			return DefinitionError{Wizard: wizard, Message: fmt.Sprintf("step %s, %s", step.Id, err.Error())}
		}
		if len(next.Cases) == 0 {
			return DefinitionError{Wizard: wizard, Message: fmt.Sprintf("step %s, switch should have at least one case", step.Id)}
		}
	}
	targets := make([]string, 0, len(next.Cases)+1)
	for _, target := range next.Cases {
		targets = append(targets, target)
	}
	if len(next.Default) > 0 {
		targets = append(targets, next.Default)
	}
	for _, target := range targets {
		if _, ok := allSteps[target]; !ok {
			return DefinitionError{Wizard: wizard, Message: fmt.Sprintf("step %s, next step %s not defined", step.Id, target)}
		}
		if target == step.Id {
			return DefinitionError{Wizard: wizard, Message: fmt.Sprintf("step %s, advance can not resolve to the same step", step.Id)}
		}
	}
	if len(step.Previous) > 0 {
		if _, ok := allSteps[step.Previous]; !ok {
			return DefinitionError{Wizard: wizard, Message: fmt.Sprintf("step %s, previous step %s not defined", step.Id, step.Previous)}
		}
	}
	if err := validation.ValidateFieldDefs(step); err != nil {
		return DefinitionError{Wizard: wizard, Message: err.Error()}
	}
	for _, rule := range step.RangeRules {
		if len(rule.MinField) == 0 || len(rule.MaxField) == 0 {
			return DefinitionError{Wizard: wizard, Message: fmt.Sprintf("step %s, range rule should declare min and max fields", step.Id)}
		}
	}
	return nil
}

func validateReachable(wz model.Wizard, allSteps map[string]*model.StepDef) error {
	visited := map[string]bool{wz.RootStep: true}
	pending := []string{wz.RootStep}
	for len(pending) > 0 {
		stepId := pending[0]
		pending = pending[1:]
		step := allSteps[stepId]
		for _, target := range step.Next.Cases {
			if !visited[target] {
				visited[target] = true
				pending = append(pending, target)
			}
		}
		if target := step.Next.Default; len(target) > 0 && !visited[target] {
			visited[target] = true
			pending = append(pending, target)
		}
	}
	for stepId := range allSteps {
		if !visited[stepId] {
			return DefinitionError{Wizard: wz.Name, Message: fmt.Sprintf("step %s not reachable from root step", stepId)}
		}
	}
	return nil
}
