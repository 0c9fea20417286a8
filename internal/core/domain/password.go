package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
)

// PasswordPolicy selects how strictly new passwords are checked.
type PasswordPolicy string

const (
	// PolicyBasic only enforces the length bounds.
	PolicyBasic PasswordPolicy = "basic"
	// PolicyStrict additionally requires upper case, lower case, a digit and a symbol.
	PolicyStrict PasswordPolicy = "strict"
)

// Check returns a *ValidationError when password does not satisfy the policy.
func (p PasswordPolicy) Check(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return NewValidationError("password", "must be at least "+itoa(MinPasswordLength)+" characters")
	}
	if n > MaxPasswordLength {
		return NewValidationError("password", "must be at most "+itoa(MaxPasswordLength)+" characters")
	}
	if p != PolicyStrict {
		return nil
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var missing []string
	if !upper {
		missing = append(missing, "an upper case letter")
	}
	if !lower {
		missing = append(missing, "a lower case letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !symbol {
		missing = append(missing, "a symbol")
	}
	if len(missing) > 0 {
		return NewValidationError("password", "must contain "+strings.Join(missing, ", "))
	}
	return nil
}
