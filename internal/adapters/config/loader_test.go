package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/adapters/config"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(domain.EnvDir(root), 0o750))
	require.NoError(t, os.WriteFile(domain.DefaultConfigPath(root), []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()
	loader := config.NewLoader(mocks.NewMockLogger(gomock.NewController(t)))

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(root), cfg)
}

func TestLoad_File(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
version: "1"
formats: ["ttl", "*.OWL", ".nt"]
include: ["models/**"]
exclude: ["models/draft/**"]
concurrency: 2
deadline: 90s
strict: true
ambiguity: error
fetch:
  timeout: 5s
  retries: 0
  offline: true
`)
	loader := config.NewLoader(mocks.NewMockLogger(gomock.NewController(t)))

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, []string{".ttl", ".owl", ".nt"}, cfg.Extensions)
	assert.Equal(t, []string{"models/**"}, cfg.Include)
	assert.Contains(t, cfg.Exclude, ".ontoenv/**")
	assert.Contains(t, cfg.Exclude, "models/draft/**")
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Deadline)
	assert.True(t, cfg.Strict)
	assert.Equal(t, domain.AmbiguityError, cfg.Ambiguity)
	assert.Equal(t, domain.FetchConfig{Timeout: 5 * time.Second, Retries: 0, Offline: true}, cfg.Fetch)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{name: "Malformed YAML", content: "formats: [", errContains: domain.ErrConfigParseFailed.Error()},
		{name: "Unknown Field", content: "colour: blue", errContains: domain.ErrConfigParseFailed.Error()},
		{name: "Bad Duration", content: "deadline: soon", errContains: domain.ErrInvalidConfig.Error()},
		{name: "Bad Fetch Timeout", content: "fetch:\n  timeout: x", errContains: domain.ErrInvalidConfig.Error()},
		{name: "Out Of Range", content: "concurrency: 0", errContains: domain.ErrInvalidConfig.Error()},
		{name: "Unknown Policy", content: "ambiguity: first-wins", errContains: domain.ErrInvalidConfig.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.content)
			loader := config.NewLoader(mocks.NewMockLogger(gomock.NewController(t)))

			_, err := loader.Load(root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_UnknownVersionWarns(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `version: "2"`)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := config.NewLoader(log).Load(root)
	require.NoError(t, err)
}

func TestDiscoverRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(domain.EnvDir(root), 0o750))
	nested := filepath.Join(root, "models", "brick")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	loader := config.NewLoader(mocks.NewMockLogger(gomock.NewController(t)))

	got, err := loader.DiscoverRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = loader.DiscoverRoot(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNotInitialized.Error())
}
