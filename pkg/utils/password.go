package utils

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	appErrors "rideshare-backend/pkg/errors"
)

// PasswordCost is the bcrypt cost used by HashPassword. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

const minPasswordLength = 8

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if len(password) < minPasswordLength || !hasUpper || !hasLower || !hasNumber || !hasSpecial {
		return fmt.Errorf("%w: at least %d characters with uppercase, lowercase, number and special symbol",
			appErrors.ErrWeakPassword, minPasswordLength)
	}

	return nil
}
