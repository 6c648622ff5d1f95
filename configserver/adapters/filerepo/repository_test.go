package filerepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"edgemesh/configserver/domain"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func sourceNames(env domain.Environment) []string {
	names := make([]string, 0, len(env.PropertySources))
	for _, ps := range env.PropertySources {
		names = append(names, ps.Name)
	}
	return names
}

func TestNew_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "filerepo.repository.go: dir is required", func() {
		New("", log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "filerepo.repository.go: logger is required", func() {
		New(t.TempDir(), nil)
	})
}

func TestFlatten(t *testing.T) {
	got, err := Flatten([]byte(`
REGISTRY_URL: http://registry:8500
gateway:
  timeouts:
    connect: 5s
  ratio: 1.0
  enabled: true
  empty: ~
hosts:
  - a
  - name: b
ROUTES_YAML: |
  routes:
    - prefix: /api
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"REGISTRY_URL":             "http://registry:8500",
		"gateway.timeouts.connect": "5s",
		"gateway.ratio":            "1.0",
		"gateway.enabled":          "true",
		"gateway.empty":            "",
		"hosts[0]":                 "a",
		"hosts[1].name":            "b",
		"ROUTES_YAML":              "routes:\n  - prefix: /api\n",
	}, got)
}

func TestFlatten_MergeKeys(t *testing.T) {
	got, err := Flatten([]byte(`
base: &base
  timeout: 5s
  retries: 1
svc:
  <<: *base
  retries: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "5s", got["svc.timeout"])
	assert.Equal(t, "2", got["svc.retries"])
	assert.NotContains(t, got, "svc.<<")
}

func TestFlatten_EmptyAndInvalid(t *testing.T) {
	for _, raw := range []string{"", "   \n", "# only a comment\n", "~\n"} {
		got, err := Flatten([]byte(raw))
		require.NoError(t, err, "%q", raw)
		assert.Empty(t, got)
	}

	_, err := Flatten([]byte("- a\n- b\n"))
	assert.ErrorContains(t, err, "top level must be a mapping, got sequence")

	_, err = Flatten([]byte("key: [unclosed"))
	assert.Error(t, err)
}

func TestRepository_Find_Order(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"gateway-dev.yml":     "REGISTRY_URL: http://dev-registry:8500\n",
		"gateway.yaml":        "REGISTRY_URL: http://registry:8500\nCONNECT_TIMEOUT: 2s\n",
		"application-dev.yml": "LOG_LEVEL: debug\n",
		"application.yml":     "LOG_LEVEL: info\nJWT_SECRET: shared\n",
		"auth-service.yml":    "TOKEN_TTL: 1h\n",
	})
	repo := New(dir, log.NewNopLogger())

	env, err := repo.Find(context.Background(), "gateway", []string{"dev"})
	require.NoError(t, err)
	assert.Equal(t, "gateway", env.Name)
	assert.Equal(t, []string{"dev"}, env.Profiles)
	assert.Equal(t, []string{"gateway-dev.yml", "gateway.yaml", "application-dev.yml", "application.yml"}, sourceNames(env))
	assert.Equal(t, "http://dev-registry:8500", env.PropertySources[0].Source["REGISTRY_URL"])
	assert.Len(t, env.Version, 64)

	again, err := repo.Find(context.Background(), "gateway", []string{"dev"})
	require.NoError(t, err)
	assert.Equal(t, env.Version, again.Version)

	prod, err := repo.Find(context.Background(), "gateway", []string{"prod"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gateway.yaml", "application.yml"}, sourceNames(prod))
	assert.NotEqual(t, env.Version, prod.Version)
}

func TestRepository_Find_UnknownService(t *testing.T) {
	dir := writeFiles(t, map[string]string{"application.yml": "A: b\n"})
	env, err := New(dir, log.NewNopLogger()).Find(context.Background(), "billing", []string{"default"})
	require.NoError(t, err)
	assert.Equal(t, []string{"application.yml"}, sourceNames(env))

	empty, err := New(t.TempDir(), log.NewNopLogger()).Find(context.Background(), "billing", []string{"default"})
	require.NoError(t, err)
	assert.NotNil(t, empty.PropertySources)
	assert.Empty(t, empty.PropertySources)
}

func TestRepository_Find_VersionChangesOnEdit(t *testing.T) {
	dir := writeFiles(t, map[string]string{"gateway.yml": "A: 1\n"})
	repo := New(dir, log.NewNopLogger())
	before, err := repo.Find(context.Background(), "gateway", []string{"default"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "gateway.yml"), []byte("A: 2\n"), 0o644))
	after, err := repo.Find(context.Background(), "gateway", []string{"default"})
	require.NoError(t, err)
	assert.NotEqual(t, before.Version, after.Version)
	assert.Equal(t, "2", after.PropertySources[0].Source["A"])
}

func TestRepository_Find_Errors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"gateway.yml": "- not\n- a map\n"})
	repo := New(dir, log.NewNopLogger())

	_, err := repo.Find(context.Background(), "gateway", []string{"default"})
	assert.ErrorContains(t, err, "parse gateway.yml")

	_, err = repo.Find(context.Background(), "../secrets", []string{"default"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = repo.Find(context.Background(), "gateway", []string{"a/b"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.Find(ctx, "gateway", []string{"default"})
	assert.ErrorIs(t, err, context.Canceled)
}
