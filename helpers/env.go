package helpers

import (
	"fmt"
	"strconv"
	"time"
)

// Getenv has the signature of os.Getenv; LoadConfig functions take one so the config server can sit
// behind the environment (configclient.Client.Getenv).
type Getenv func(key string) string

// EnvInt parses key as an int, returning def when unset.
func EnvInt(getenv Getenv, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// RequiredPort parses key as a TCP port; it must be set and within 1..65535.
func RequiredPort(getenv Getenv, key string) (int, error) {
	if getenv(key) == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	port, err := EnvInt(getenv, key, 0)
	if err != nil {
		return 0, err
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid %s: %d out of range", key, port)
	}
	return port, nil
}

// EnvDuration parses key with time.ParseDuration, returning def when unset.
func EnvDuration(getenv Getenv, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}
	return v, nil
}

// EnvFloat parses key as a float64, returning def when unset.
func EnvFloat(getenv Getenv, key string, def float64) (float64, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// EnvString returns key or def when unset.
func EnvString(getenv Getenv, key string, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// MapEnv returns a Getenv reading from m; tests use it instead of t.Setenv.
func MapEnv(m map[string]string) Getenv {
	return func(key string) string { return m[key] }
}
