package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlankPassword    = errors.New("password must not be blank")
	ErrBlankName        = errors.New("account name must not be blank")
	ErrInvalidName      = errors.New("account name must not contain '=' or line breaks")
	ErrAlreadyExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrWrongPassword    = errors.New("wrong password or corrupted vault")
	ErrVaultExists      = errors.New("vault already exists")
	ErrVaultNotFound    = errors.New("vault not found")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidatePassword rejects blank passwords
func ValidatePassword(password []byte) error {
	if len(strings.TrimSpace(string(password))) == 0 {
		return ErrBlankPassword
	}
	return nil
}

// ValidateName rejects names that cannot survive a save and reload
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankName
	}
	if strings.ContainsAny(name, "=\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
