package scenario

import "fmt"

// UnknownScenarioError is returned when the requested scenario name is not registered.
type UnknownScenarioError struct {
	Name string
}

func (e *UnknownScenarioError) Error() string {
	return fmt.Sprintf("unknown scenario: %s", e.Name)
}

// StatusError reports a response that did not match what the scenario expected.
type StatusError struct {
	Step     string
	Expected int
	Got      int
	Code     string
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: expected status %d, got %d (code %q): %s", e.Step, e.Expected, e.Got, e.Code, e.Body)
}
