// Package prompts provides interactive CLI prompt components using charmbracelet/huh.
package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// RunPasswordPrompt asks for a password with masked input. With confirm set a
// second field must repeat it.
func RunPasswordPrompt(title string, confirm bool) (string, error) {
	var password, repeat string

	fields := []huh.Field{
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Validate(requireNonEmpty).
			Value(&password),
	}
	if confirm {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&repeat))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return "", err
	}
	if confirm && password != repeat {
		return "", ErrPasswordMismatch
	}
	return password, nil
}

func requireNonEmpty(s string) error {
	if s == "" {
		return errors.New("password cannot be empty")
	}
	return nil
}
