package dedihelper

import (
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/erikgeiser/promptkit/selection"
)

// Prompter answers the questions the setup flow needs to ask. The
// reconciliation code depends on this interface only, so it runs
// against canned answers in tests without touching stdin.
type Prompter interface {
	// Confirm asks a yes/no question, def being the answer on plain enter.
	Confirm(question string, def bool) (bool, error)
	// Select asks the user to pick one of choices and returns the pick.
	Select(question string, choices []string) (string, error)
}

// TerminalPrompter asks on the controlling terminal.
type TerminalPrompter struct{}

func (TerminalPrompter) Confirm(question string, def bool) (bool, error) {
	d := confirmation.No
	if def {
		d = confirmation.Yes
	}
	return confirmation.New(question, d).RunPrompt()
}

func (TerminalPrompter) Select(question string, choices []string) (string, error) {
	sel := selection.New(question, choices)
	sel.Filter = nil
	return sel.RunPrompt()
}
