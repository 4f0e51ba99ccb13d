package postgres

import (
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
)

// Connection strings come in two forms: postgres:// URLs and libpq
// key=value DSNs. The helpers below accept either.

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// connParam looks key up case-insensitively in the URL query or the DSN pairs
func connParam(connStr, key string) (string, bool) {
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return "", false
		}
		for k, v := range u.Query() {
			if strings.EqualFold(k, key) && len(v) > 0 {
				return v[0], true
			}
		}
		return "", false
	}
	for _, field := range strings.Fields(connStr) {
		k, v, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// withParam adds key=value unless the connection string already sets key
func withParam(connStr, key, value string) string {
	if _, ok := connParam(connStr, key); ok {
		return connStr
	}
	if !isURL(connStr) {
		return strings.TrimSpace(connStr) + " " + key + "=" + value
	}
	u, err := url.Parse(connStr)
	if err != nil {
		logger.Warn("Failed to parse Postgres connection string", "error", err)
		return connStr
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

func invalidConnString(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConnectionString, fmt.Sprintf(format, args...))
}

// ValidateConnString reports whether connStr is a usable PostgreSQL
// connection string that carries no password. Passwords belong in the
// keyring, AURORA_DB_CONNECTION or ~/.pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, invalidConnString("connection string cannot be empty")
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, invalidConnString("%v", err)
	}
	if _, ok := connParam(connStr, "password"); ok {
		return false, ErrEmbeddedCredentials
	}
	if !isURL(connStr) {
		return true, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return false, invalidConnString("%v", err)
	}
	if _, set := u.User.Password(); set {
		return false, ErrEmbeddedCredentials
	}
	if u.Host == "" && u.User == nil && strings.Trim(u.Path, "/") == "" {
		return false, invalidConnString("connection URL is incomplete")
	}
	return true, nil
}
