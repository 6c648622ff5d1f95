package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	env := MapEnv(map[string]string{
		"PORT":     "8080",
		"BAD_PORT": "99999",
		"NOT_INT":  "abc",
		"TTL":      "45s",
		"NEG":      "-1s",
		"RATIO":    "0.5",
		"NAME":     "orders",
	})

	v, err := EnvInt(env, "PORT", 1)
	require.NoError(t, err)
	assert.Equal(t, 8080, v)
	v, err = EnvInt(env, "UNSET", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	_, err = EnvInt(env, "NOT_INT", 0)
	assert.ErrorContains(t, err, "invalid NOT_INT")

	p, err := RequiredPort(env, "PORT")
	require.NoError(t, err)
	assert.Equal(t, 8080, p)
	_, err = RequiredPort(env, "UNSET")
	assert.EqualError(t, err, "UNSET is required")
	_, err = RequiredPort(env, "BAD_PORT")
	assert.ErrorContains(t, err, "out of range")

	d, err := EnvDuration(env, "TTL", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)
	d, err = EnvDuration(env, "UNSET", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
	_, err = EnvDuration(env, "NEG", 0)
	assert.ErrorContains(t, err, "negative")
	_, err = EnvDuration(env, "NAME", 0)
	assert.ErrorContains(t, err, "invalid NAME")

	f, err := EnvFloat(env, "RATIO", 0.8)
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	assert.Equal(t, "orders", EnvString(env, "NAME", "x"))
	assert.Equal(t, "x", EnvString(env, "UNSET", "x"))
}
