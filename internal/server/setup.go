package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/crumbdeck-agent/config"
	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
)

// SetupHandlers handles the setup and settings endpoints
type SetupHandlers struct {
	cfg         *config.Config
	panel       *panel.Panel
	fileBrowser *files.Browser
}

// NewSetupHandlers creates setup handlers
func NewSetupHandlers(cfg *config.Config, p *panel.Panel, browser *files.Browser) *SetupHandlers {
	return &SetupHandlers{cfg: cfg, panel: p, fileBrowser: browser}
}

// SetupStatus reports what is left to configure (no auth required in setup mode)
func (h *SetupHandlers) SetupStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"setup_mode": h.cfg.SetupMode,
		"env_file":   h.cfg.EnvFile,
		"next":       "POST /setup/generate, then POST /setup/save with the key, then restart the agent",
	})
}

// GetSettings returns current settings (requires auth)
func (h *SetupHandlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"port":              h.cfg.Port,
		"host":              h.cfg.Host,
		"allowed_origins":   h.cfg.AllowedOrigins,
		"allowed_paths":     h.cfg.AllowedPaths,
		"active_paths":      h.fileBrowser.GetAllowedPaths(),
		"workspace_folders": h.cfg.WorkspaceFolders,
		"watch_enabled":     h.cfg.WatchEnabled,
		"log_level":         h.cfg.LogLevel,
		"rate_limit_rps":    h.cfg.RateLimitRPS,
		"env_file":          h.cfg.EnvFile,
		"setup_mode":        h.cfg.SetupMode,
		"panel":             h.panel.Settings(),
		// Don't expose the actual API key, just indicate if it's set
		"api_key_configured": h.cfg.APIKey != "",
	})
}

// GenerateKey generates a new API key
func (h *SetupHandlers) GenerateKey(c *gin.Context) {
	apiKey, err := config.GenerateAPIKey()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate API key: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"api_key": apiKey,
	})
}

// SaveKey saves the API key to the .env file
func (h *SetupHandlers) SaveKey(c *gin.Context) {
	var req struct {
		APIKey string `json:"api_key" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: api_key is required",
		})
		return
	}

	if len(req.APIKey) < 32 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "API key must be at least 32 characters",
		})
		return
	}

	if err := h.cfg.SaveAPIKey(req.APIKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save API key: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "API key saved successfully",
		"api_key":  req.APIKey,
		"env_file": h.cfg.EnvFile,
		"note":     "Restart the agent to apply the new API key for authentication",
	})
}

// UpdateSettings applies panel switches immediately and stores allowed paths for the next start
func (h *SetupHandlers) UpdateSettings(c *gin.Context) {
	var req struct {
		panel.SettingsUpdate
		AllowedPaths []string `json:"allowed_paths"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request",
		})
		return
	}

	// allowed_paths can only fail on the .env write, so it goes first and a
	// failure leaves the panel untouched
	if len(req.AllowedPaths) > 0 {
		updates := map[string]string{"ALLOWED_PATHS": strings.Join(req.AllowedPaths, ",")}
		if err := config.UpdateEnvFile(h.cfg.EnvFile, updates); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to save settings: " + err.Error(),
			})
			return
		}
		h.cfg.AllowedPaths = req.AllowedPaths
	}

	settings, err := h.panel.UpdateSettings(req.SettingsUpdate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":         err.Error(),
			"allowed_paths": h.cfg.AllowedPaths,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Settings updated",
		"panel":         settings,
		"allowed_paths": h.cfg.AllowedPaths,
		"note":          "allowed_paths take effect after restart",
	})
}
