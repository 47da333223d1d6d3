package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points ENV_FILE at an empty temp file so a developer .env cannot leak in
func isolate(t *testing.T) string {
	t.Helper()
	envFile := filepath.Join(t.TempDir(), ".env")
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("API_KEY", "")
	return envFile
}

func TestLoadWithDefaults(t *testing.T) {
	cfg := LoadWithDefaults()

	assert.NotNil(t, cfg)
	assert.Equal(t, 8092, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "test-api-key", cfg.APIKey)
	assert.True(t, cfg.FollowEditor)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingAPIKeyEntersSetupMode(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SetupMode)
}

func TestLoadWithEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("API_KEY", "my-test-key")
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORKSPACE_FOLDERS", "/ws/one, /ws/two")
	t.Setenv("BREADCRUMB_FROM_WORKSPACE_ROOT", "true")
	t.Setenv("SHOW_BREADCRUMB_ICONS", "1")
	t.Setenv("FOLLOW_EDITOR", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-test-key", cfg.APIKey)
	assert.Equal(t, "my-test-key", cfg.JWTSecret)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/ws/one", "/ws/two"}, cfg.WorkspaceFolders)
	assert.Equal(t, "/ws/one", cfg.WorkspaceRoot())
	assert.True(t, cfg.BreadcrumbFromWorkspaceRoot)
	assert.True(t, cfg.ShowBreadcrumbIcons)
	assert.False(t, cfg.FollowEditor)
	assert.False(t, cfg.SetupMode)
}

func TestLoadReadsEnvFile(t *testing.T) {
	envFile := isolate(t)
	require.NoError(t, os.WriteFile(envFile, []byte("SHOW_BREADCRUMB_ICONS=true\n"), 0o600))
	t.Setenv("SHOW_BREADCRUMB_ICONS", "")
	os.Unsetenv("SHOW_BREADCRUMB_ICONS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.ShowBreadcrumbIcons)
	assert.Equal(t, envFile, cfg.EnvFile)
}

func TestLoadRejectsRelativeWorkspace(t *testing.T) {
	isolate(t)
	t.Setenv("WORKSPACE_FOLDERS", "relative/ws")

	_, err := Load()
	assert.Error(t, err)
}

func TestWorkspaceRootEmpty(t *testing.T) {
	cfg := LoadWithDefaults()
	assert.Equal(t, "", cfg.WorkspaceRoot())
}

func TestConfigAddr(t *testing.T) {
	cfg := LoadWithDefaults()
	assert.Equal(t, "127.0.0.1:8092", cfg.Addr())
}

func TestSaveBreadcrumbSettings(t *testing.T) {
	cfg := LoadWithDefaults()
	cfg.EnvFile = filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(cfg.EnvFile, []byte("API_KEY=abc\nSHOW_BREADCRUMB_ICONS=false\n"), 0o600))

	require.NoError(t, cfg.SaveBreadcrumbSettings(true, true))
	assert.True(t, cfg.BreadcrumbFromWorkspaceRoot)
	assert.True(t, cfg.ShowBreadcrumbIcons)

	data, err := os.ReadFile(cfg.EnvFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "API_KEY=abc")
	assert.Contains(t, content, "SHOW_BREADCRUMB_ICONS=true")
	assert.Contains(t, content, "BREADCRUMB_FROM_WORKSPACE_ROOT=true")
	assert.NotContains(t, content, "SHOW_BREADCRUMB_ICONS=false")
}

func TestSaveAPIKey(t *testing.T) {
	cfg := LoadWithDefaults()
	cfg.EnvFile = filepath.Join(t.TempDir(), ".env")
	cfg.SetupMode = true

	require.NoError(t, cfg.SaveAPIKey("new-key"))
	assert.Equal(t, "new-key", cfg.APIKey)
	assert.False(t, cfg.SetupMode)

	data, err := os.ReadFile(cfg.EnvFile)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=new-key\n", string(data))
}

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.Len(t, key, 64)
}
