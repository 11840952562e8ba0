package security

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const maxZxcvbnScore = 4

// PasswordValidator enforces the registration password policy: a minimum
// length plus a zxcvbn strength floor. Context strings (email, username)
// are penalized by the strength estimator when supplied.
type PasswordValidator struct {
	minLength int
	minScore  int
	context   []string
}

// DefaultPasswordValidator returns the policy applied at registration:
// eight characters minimum and a zxcvbn score of at least 2.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(8, 2)
}

// NewPasswordValidator builds a policy with the given floors. A minScore
// above the zxcvbn maximum of 4 is clamped; zero or negative disables the
// strength check.
func NewPasswordValidator(minLength, minScore int, context ...string) *PasswordValidator {
	if minScore > maxZxcvbnScore {
		minScore = maxZxcvbnScore
	}
	return &PasswordValidator{
		minLength: minLength,
		minScore:  minScore,
		context:   append([]string(nil), context...),
	}
}

// Validate reports the first policy violation, or nil when the password
// passes.
func (v *PasswordValidator) Validate(password string) error {
	if v == nil {
		return fmt.Errorf("password policy not configured")
	}

	if len([]rune(password)) < v.minLength {
		return fmt.Errorf("password must be at least %d characters long", v.minLength)
	}

	if v.minScore > 0 {
		strength := zxcvbn.PasswordStrength(password, v.context)
		if strength.Score < v.minScore {
			return fmt.Errorf("password is too guessable; choose a longer or less predictable value")
		}
	}

	return nil
}
