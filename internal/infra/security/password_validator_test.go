package security

import (
	"strings"
	"testing"
)

func TestDefaultPasswordValidatorRejectsShortPasswords(t *testing.T) {
	v := DefaultPasswordValidator()

	err := v.Validate("Ab1!x")
	if err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if !strings.Contains(err.Error(), "at least 8 characters") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDefaultPasswordValidatorRejectsGuessablePasswords(t *testing.T) {
	v := DefaultPasswordValidator()

	for _, password := range []string{"password", "12345678", "qwertyuiop"} {
		if err := v.Validate(password); err == nil {
			t.Errorf("expected %q to be rejected as guessable", password)
		}
	}
}

func TestDefaultPasswordValidatorAcceptsStrongPassphrase(t *testing.T) {
	v := DefaultPasswordValidator()

	if err := v.Validate("Tr0ub4dor&3-horse-staple"); err != nil {
		t.Fatalf("expected passphrase to pass policy, got %v", err)
	}
}

func TestNewPasswordValidatorDisablesStrengthCheckBelowOne(t *testing.T) {
	v := NewPasswordValidator(8, 0)

	if err := v.Validate("password"); err != nil {
		t.Fatalf("expected strength check to be disabled, got %v", err)
	}
}

func TestNilPasswordValidatorReportsMisconfiguration(t *testing.T) {
	var v *PasswordValidator

	if err := v.Validate("whatever-this-is"); err == nil {
		t.Fatal("expected nil validator to error")
	}
}
