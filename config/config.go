package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GenerateAPIKey generates a secure random API key
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Config holds all configuration for the agent
type Config struct {
	// Server settings
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Authentication
	APIKey    string
	JWTSecret string
	TokenTTL  time.Duration

	// Security
	AllowedOrigins []string
	RateLimitRPS   int
	AllowedPaths   []string

	// Logging
	LogLevel string

	// Breadcrumbs
	WorkspaceFolders            []string
	BreadcrumbFromWorkspaceRoot bool
	ShowBreadcrumbIcons         bool
	FollowEditor                bool
	LinkedToExplorer            bool
	MaxAscentDepth              int

	// Directory watching
	WatchEnabled  bool
	WatchDebounce time.Duration

	// Shell integration
	FileManager      string
	ExternalTerminal string
	ScriptsDir       string

	// Setup mode
	SetupMode bool
	EnvFile   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	envFile := getEnvFile()

	// Load .env file if it exists
	_ = godotenv.Load(envFile)

	cfg := &Config{
		Port:                        getEnvInt("PORT", 8092),
		Host:                        getEnv("HOST", "127.0.0.1"),
		ReadTimeout:                 time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 30)) * time.Second,
		WriteTimeout:                time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 0)) * time.Second,
		APIKey:                      getEnv("API_KEY", ""),
		JWTSecret:                   getEnv("JWT_SECRET", ""),
		TokenTTL:                    time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 720)) * time.Minute,
		AllowedOrigins:              getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:                getEnvInt("RATE_LIMIT_RPS", 100),
		AllowedPaths:                getEnvSlice("ALLOWED_PATHS", []string{"*"}),
		LogLevel:                    getEnv("LOG_LEVEL", "info"),
		WorkspaceFolders:            getEnvSlice("WORKSPACE_FOLDERS", nil),
		BreadcrumbFromWorkspaceRoot: getEnvBool("BREADCRUMB_FROM_WORKSPACE_ROOT", false),
		ShowBreadcrumbIcons:         getEnvBool("SHOW_BREADCRUMB_ICONS", false),
		FollowEditor:                getEnvBool("FOLLOW_EDITOR", true),
		LinkedToExplorer:            getEnvBool("LINKED_TO_EXPLORER", true),
		MaxAscentDepth:              getEnvInt("MAX_ASCENT_DEPTH", 256),
		WatchEnabled:                getEnvBool("WATCH_ENABLED", true),
		WatchDebounce:               time.Duration(getEnvInt("WATCH_DEBOUNCE_MS", 200)) * time.Millisecond,
		FileManager:                 getEnv("FILE_MANAGER", "/usr/bin/nautilus"),
		ExternalTerminal:            getEnv("EXTERNAL_TERMINAL", "gnome-terminal"),
		ScriptsDir:                  getEnv("SCRIPTS_DIR", defaultScriptsDir()),
		SetupMode:                   false,
		EnvFile:                     envFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check if API key is configured
	if cfg.APIKey == "" {
		cfg.SetupMode = true
		return cfg, nil
	}

	if cfg.JWTSecret == "" {
		// Use API key as fallback for JWT secret
		cfg.JWTSecret = cfg.APIKey
	}

	return cfg, nil
}

// Validate rejects values the agent cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.MaxAscentDepth <= 0 {
		return fmt.Errorf("MAX_ASCENT_DEPTH must be positive")
	}
	for _, folder := range c.WorkspaceFolders {
		if !filepath.IsAbs(folder) {
			return fmt.Errorf("workspace folder %q must be absolute", folder)
		}
	}
	return nil
}

// WorkspaceRoot returns the first workspace folder, or "" when there is none.
// Only the first folder takes part in breadcrumb truncation.
func (c *Config) WorkspaceRoot() string {
	if len(c.WorkspaceFolders) == 0 {
		return ""
	}
	return filepath.Clean(c.WorkspaceFolders[0])
}

// getEnvFile returns the path to the .env file
func getEnvFile() string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return envFile
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	// Next to the executable
	exe, err := os.Executable()
	if err == nil {
		envPath := filepath.Join(filepath.Dir(exe), ".env")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	return ".env"
}

func defaultScriptsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "scripts"
	}
	return filepath.Join(filepath.Dir(exe), "scripts")
}

// SaveAPIKey saves the API key to the .env file
func (c *Config) SaveAPIKey(apiKey string) error {
	updates := map[string]string{"API_KEY": apiKey}
	if err := UpdateEnvFile(c.EnvFile, updates); err != nil {
		return err
	}

	c.APIKey = apiKey
	c.JWTSecret = apiKey
	c.SetupMode = false

	return nil
}

// SaveBreadcrumbSettings persists the two breadcrumb switches to the .env file
func (c *Config) SaveBreadcrumbSettings(fromWorkspaceRoot, showIcons bool) error {
	updates := map[string]string{
		"BREADCRUMB_FROM_WORKSPACE_ROOT": strconv.FormatBool(fromWorkspaceRoot),
		"SHOW_BREADCRUMB_ICONS":          strconv.FormatBool(showIcons),
	}
	if err := UpdateEnvFile(c.EnvFile, updates); err != nil {
		return err
	}

	c.BreadcrumbFromWorkspaceRoot = fromWorkspaceRoot
	c.ShowBreadcrumbIcons = showIcons

	return nil
}

// UpdateEnvFile updates or adds environment variables in a .env file
func UpdateEnvFile(envFile string, updates map[string]string) error {
	existingContent := ""
	if data, err := os.ReadFile(envFile); err == nil {
		existingContent = string(data)
	}

	lines := strings.Split(existingContent, "\n")
	found := make(map[string]bool)

	for i, line := range lines {
		for key, value := range updates {
			if strings.HasPrefix(line, key+"=") {
				lines[i] = key + "=" + value
				found[key] = true
				break
			}
		}
	}

	// Add missing keys at the beginning
	var newLines []string
	for key, value := range updates {
		if !found[key] {
			newLines = append(newLines, key+"="+value)
		}
	}
	if len(newLines) > 0 {
		lines = append(newLines, lines...)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env file: %w", err)
	}

	return nil
}

// LoadWithDefaults loads config with defaults for testing
func LoadWithDefaults() *Config {
	return &Config{
		Port:             8092,
		Host:             "127.0.0.1",
		ReadTimeout:      30 * time.Second,
		APIKey:           "test-api-key",
		JWTSecret:        "test-jwt-secret",
		TokenTTL:         time.Hour,
		AllowedOrigins:   []string{"*"},
		RateLimitRPS:     100,
		AllowedPaths:     []string{"*"},
		LogLevel:         "info",
		FollowEditor:     true,
		LinkedToExplorer: true,
		MaxAscentDepth:   256,
		WatchDebounce:    200 * time.Millisecond,
		FileManager:      "/usr/bin/nautilus",
		ExternalTerminal: "gnome-terminal",
		ScriptsDir:       "scripts",
		EnvFile:          ".env",
	}
}

// Addr returns the server address string
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}
