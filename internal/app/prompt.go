// Where: internal/app/prompt.go
// What: Interactive confirmation using the huh library.
// Why: Gate production deploys behind an explicit operator approval.
package app

import "github.com/charmbracelet/huh"

// HuhPrompter implements the Prompter interface using the huh TUI library.
type HuhPrompter struct{}

func (p HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Deploy").
		Negative("Abort").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
