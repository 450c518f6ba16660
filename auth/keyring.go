// Package auth persists the remote control token in the system keyring.
package auth

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vplay-cli/vplay/constant"
	"github.com/zalando/go-keyring"
)

const user = "server-token"

// SetToken persists the server token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(constant.App, user, token)
}

// GetToken retrieves the server token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(constant.App, user)
}

// DeleteToken removes the server token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(constant.App, user)
}

// EnsureToken returns the stored token, generating one on first use.
func EnsureToken() (string, error) {
	token, err := GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return RotateToken()
	}
	return token, err
}

// RotateToken replaces the stored token with a fresh random one.
func RotateToken() (string, error) {
	token := uuid.NewString()
	if err := SetToken(token); err != nil {
		return "", err
	}
	return token, nil
}
