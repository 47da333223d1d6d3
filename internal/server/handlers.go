package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/crumbdeck-agent/config"
	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
	"github.com/ngenohkevin/crumbdeck-agent/internal/cache"
	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/launcher"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
	"github.com/ngenohkevin/crumbdeck-agent/internal/shell"
	"github.com/ngenohkevin/crumbdeck-agent/internal/system"
)

const (
	agentName    = "crumbdeck-agent"
	agentVersion = "1.0.0"
	hostInfoTTL  = 30 * time.Second
)

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg         *config.Config
	auth        *AuthService
	panel       *panel.Panel
	launcher    *launcher.Launcher
	fileBrowser *files.Browser
	hostCache   *cache.Cache[*system.HostInfo]
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, auth *AuthService, svc Services) *Handlers {
	return &Handlers{
		cfg:         cfg,
		auth:        auth,
		panel:       svc.Panel,
		launcher:    svc.Launcher,
		fileBrowser: svc.Browser,
		hostCache:   cache.New[*system.HostInfo](hostInfoTTL),
	}
}

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, breadcrumb.ErrPathUnreadable), errors.Is(err, breadcrumb.ErrAscentTooDeep):
		return http.StatusUnprocessableEntity
	case errors.Is(err, files.ErrPathNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, panel.ErrUnknownCommand), errors.Is(err, panel.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, shell.ErrUnsupportedPlatform):
		return http.StatusNotImplemented
	case errors.Is(err, panel.ErrNoHost):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   agentVersion,
	})
}

// GetInfo handles GET /api/info
func (h *Handlers) GetInfo(c *gin.Context) {
	hostInfo, err := h.hostCache.GetOrSet(cache.KeyHost, system.GetHostInfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hostname":    hostInfo.Hostname,
		"os":          hostInfo.OS,
		"platform":    hostInfo.Platform,
		"kernel":      hostInfo.KernelVersion,
		"arch":        hostInfo.KernelArch,
		"uptime":      hostInfo.UptimeHuman,
		"integration": hostInfo.Integration,
		"agent":       agentName,
		"version":     agentVersion,
	})
}

// IssueToken handles POST /api/token
func (h *Handlers) IssueToken(c *gin.Context) {
	token, err := h.auth.GenerateToken("webview", h.cfg.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(h.cfg.TokenTTL).UTC(),
	})
}

// Editor handlers

// EditorActive handles POST /api/editor/active
func (h *Handlers) EditorActive(c *gin.Context) {
	var req struct {
		Path *string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	path := ""
	if req.Path != nil {
		path = *req.Path
	}

	if err := h.panel.ActivePathChanged(path); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":      path,
		"following": h.panel.Settings().FollowEditor,
	})
}

// EditorTheme handles POST /api/editor/theme
func (h *Handlers) EditorTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: theme is required"})
		return
	}

	theme, err := panel.ParseTheme(req.Theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.panel.ThemeChanged(theme)
	c.JSON(http.StatusOK, gin.H{"colorTheme": theme})
}

// Breadcrumb handlers

// GetBreadcrumbs handles GET /api/breadcrumbs
func (h *Handlers) GetBreadcrumbs(c *gin.Context) {
	c.JSON(http.StatusOK, h.panel.Snapshot())
}

// BuildBreadcrumbs handles GET /api/breadcrumbs/build
func (h *Handlers) BuildBreadcrumbs(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if !h.fileBrowser.IsPathAllowed(path) {
		respondError(c, files.ErrPathNotAllowed)
		return
	}

	result, err := h.panel.Build(path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PostCommand handles POST /api/commands
func (h *Handlers) PostCommand(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cmd, err := panel.DecodeCommand(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.panel.Handle(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"command": cmd.Name(),
		"path":    cmd.Target().Path,
	})
}

// ListLaunches handles GET /api/launches
func (h *Handlers) ListLaunches(c *gin.Context) {
	c.JSON(http.StatusOK, h.launcher.List())
}

// GetFileInfo handles GET /api/files/info
func (h *Handlers) GetFileInfo(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	info, err := h.fileBrowser.Describe(path)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, files.ErrPathNotAllowed) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Event streams

func sseHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}

// StreamEvents handles GET /api/events (SSE to the rendering surface).
// A new subscriber first gets the last good trail and the current theme.
func (h *Handlers) StreamEvents(c *gin.Context) {
	sseHeaders(c)

	messages, cancel := h.panel.Surface().Subscribe()
	defer cancel()

	ctx := c.Request.Context()

	snapshot := panel.BreadcrumbsUpdated{Result: *h.panel.Snapshot()}
	data, _ := json.Marshal(snapshot)
	c.SSEvent(snapshot.Event(), string(data))
	if theme := h.panel.Theme(); theme != "" {
		data, _ := json.Marshal(panel.ThemeChanged{Theme: theme})
		c.SSEvent("colorTheme", string(data))
	}
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			data, _ := json.Marshal(msg)
			c.SSEvent(msg.Event(), string(data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// StreamHostEvents handles GET /api/host/events (SSE to the editor)
func (h *Handlers) StreamHostEvents(c *gin.Context) {
	sseHeaders(c)

	requests, cancel := h.panel.Host().Subscribe()
	defer cancel()

	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case req, ok := <-requests:
			if !ok {
				return false
			}
			data, _ := json.Marshal(req)
			c.SSEvent(req.Event(), string(data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// Close cleans up handlers resources
func (h *Handlers) Close() error {
	h.hostCache.Close()
	return nil
}
