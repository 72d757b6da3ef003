package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// HuhPicker asks the user on the terminal which of several candidate
// files to use.
type HuhPicker struct{}

// Pick shows title and a select list of paths, returning the chosen index.
func (HuhPicker) Pick(title string, paths []string) (int, error) {
	opts := make([]huh.Option[int], len(paths))
	for i, p := range paths {
		opts[i] = huh.NewOption(p, i)
	}

	var choice int
	err := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&choice).
		Run()
	if err != nil {
		return 0, fmt.Errorf("pick candidate: %w", err)
	}
	return choice, nil
}

// PromptToken asks for an access token for host without echoing it.
func PromptToken(host string) (string, error) {
	var token string
	err := huh.NewInput().
		Title(fmt.Sprintf("Access token for %s", host)).
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Run()
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}
