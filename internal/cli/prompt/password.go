package prompt

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// PasswordWithValidation prompts for a password with minimum length validation.
func PasswordWithValidation(label string, minLength int) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < minLength {
				return fmt.Errorf("password must be at least %d characters", minLength)
			}
			return nil
		},
	}

	result, err := p.Run()
	return result, wrapError(err)
}
