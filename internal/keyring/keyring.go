// Package keyring keeps aurora's secrets in the OS keyring so they never
// appear in config files or connection strings.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

// Account names a secret stored under the aurora service
type Account string

const (
	// AccountDatabase holds the PostgreSQL connection string
	AccountDatabase Account = constants.DefaultKeyringUser
	// AccountRedis holds the password of the Redis lock server
	AccountRedis Account = "redis-password"
)

var (
	// ErrNotFound is returned when no secret is stored for an account
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Accounts lists every account aurora may store, in display order
func Accounts() []Account {
	return []Account{AccountDatabase, AccountRedis}
}

func Get(account Account) (string, error) {
	secret, err := keyring.Get(constants.AppName, string(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func Set(account Account, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", account)
	}
	if err := keyring.Set(constants.AppName, string(account), secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", account, err)
	}
	return nil
}

func Delete(account Account) error {
	if err := keyring.Delete(constants.AppName, string(account)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", account, err)
	}
	return nil
}

// IsAvailable is a best-effort probe: a read that fails with anything other
// than not-found means there is no usable keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
