// Package identity resolves the opaque user id that scopes every record in
// the store. Authentication itself is an external concern; this package only
// supplies a stable identity for the local user.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zalando/go-keyring"

	"github.com/jstrick/ritual/internal/constants"
	"github.com/jstrick/ritual/internal/logger"
)

var (
	// ErrNotFound is returned when no identity is stored in the keyring.
	ErrNotFound = errors.New("identity not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be used.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves the persisted user identity from the OS keyring.
func Get() (string, error) {
	id, err := keyring.Get(constants.AppName, constants.DefaultKeyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return id, nil
}

// Set stores the user identity in the OS keyring.
func Set(id string) error {
	if id == "" {
		return errors.New("identity cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringKey, id); err != nil {
		return fmt.Errorf("failed to store identity in keyring: %w", err)
	}
	return nil
}

// Delete removes the persisted identity from the OS keyring.
func Delete() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete identity from keyring: %w", err)
	}
	return nil
}

// Resolve returns the user id scoping the store namespace. An explicit
// override wins; otherwise the keyring-persisted id is used, generating and
// persisting a fresh one on first run. When the keyring is unavailable the
// generated id is still returned so the program remains usable, at the cost
// of identity stability across runs.
func Resolve(override string) string {
	if override != "" {
		return override
	}

	id, err := Get()
	if err == nil {
		return id
	}

	id = uuid.New().String()
	if err := Set(id); err != nil {
		logger.Warn("Could not persist identity to keyring", "error", err)
	}
	return id
}
