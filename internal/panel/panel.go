package panel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
	"github.com/ngenohkevin/crumbdeck-agent/internal/cache"
	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/launcher"
	"github.com/ngenohkevin/crumbdeck-agent/internal/shell"
)

// ErrNoHost is returned when an action needs the editor and none is listening
var ErrNoHost = errors.New("no editor host connected")

// Settings are the user-facing switches of the panel
type Settings struct {
	BreadcrumbFromWorkspaceRoot bool     `json:"breadcrumbFromWorkspaceRoot"`
	ShowBreadcrumbIcons         bool     `json:"showBreadcrumbIcons"`
	FollowEditor                bool     `json:"followEditor"`
	LinkedToExplorer            bool     `json:"linkedToExplorer"`
	WorkspaceFolders            []string `json:"workspaceFolders"`
}

// WorkspaceRoot is the first workspace folder
func (s Settings) WorkspaceRoot() string {
	if len(s.WorkspaceFolders) == 0 {
		return ""
	}
	return s.WorkspaceFolders[0]
}

// SettingsUpdate changes only the fields that are set
type SettingsUpdate struct {
	BreadcrumbFromWorkspaceRoot *bool `json:"breadcrumbFromWorkspaceRoot"`
	ShowBreadcrumbIcons         *bool `json:"showBreadcrumbIcons"`
	FollowEditor                *bool `json:"followEditor"`
	LinkedToExplorer            *bool `json:"linkedToExplorer"`
}

// SettingsStore persists the breadcrumb switches
type SettingsStore interface {
	SaveBreadcrumbSettings(fromWorkspaceRoot, showIcons bool) error
}

// PathGuard decides which paths commands may target
type PathGuard interface {
	IsPathAllowed(path string) bool
}

// Deps are the collaborators of a Panel
type Deps struct {
	Builder   *breadcrumb.Builder
	Shell     shell.Integration
	Clipboard Clipboard
	Store     SettingsStore
	Guard     PathGuard
	Surface   *Hub[Message]
	Host      *Hub[HostRequest]
	MaxDepth  int
}

// Panel owns the breadcrumb state between the editor and the rendering surface
type Panel struct {
	builder   *breadcrumb.Builder
	shell     shell.Integration
	clipboard Clipboard
	store     SettingsStore
	guard     PathGuard
	surface   *Hub[Message]
	host      *Hub[HostRequest]
	snapshots *cache.Cache[*breadcrumb.Result]
	maxDepth  int

	mu         sync.Mutex
	settings   Settings
	editorPath string
	activePath string
	theme      Theme
	onTrail    func(*breadcrumb.Result)
}

// New creates a panel with the given initial settings
func New(deps Deps, settings Settings) *Panel {
	if deps.Surface == nil {
		deps.Surface = NewHub[Message](16)
	}
	if deps.Host == nil {
		deps.Host = NewHub[HostRequest](16)
	}
	return &Panel{
		builder:   deps.Builder,
		shell:     deps.Shell,
		clipboard: deps.Clipboard,
		store:     deps.Store,
		guard:     deps.Guard,
		surface:   deps.Surface,
		host:      deps.Host,
		snapshots: cache.New[*breadcrumb.Result](0),
		maxDepth:  deps.MaxDepth,
		settings:  settings,
	}
}

// Surface returns the hub feeding the rendering surface
func (p *Panel) Surface() *Hub[Message] { return p.surface }

// Host returns the hub feeding the editor
func (p *Panel) Host() *Hub[HostRequest] { return p.host }

// OnTrail registers a hook called with every published trail
func (p *Panel) OnTrail(fn func(*breadcrumb.Result)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTrail = fn
}

// ActivePathChanged records the editor's active file ("" when none is open).
// The trail is only rebuilt while the panel follows the editor.
func (p *Panel) ActivePathChanged(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.editorPath = path
	if !p.settings.FollowEditor {
		return nil
	}
	return p.showLocked(path)
}

// Navigate shows a path picked on the panel. While the panel does not follow
// the editor its trail is frozen and the request is dropped.
func (p *Panel) Navigate(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.settings.FollowEditor {
		log.Printf("[panel] not following, ignoring navigation to %q", path)
		return nil
	}
	return p.showLocked(path)
}

// Refresh rebuilds the trail for the path currently shown
func (p *Panel) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.showLocked(p.activePath)
}

// ThemeChanged forwards the editor theme to the rendering surface
func (p *Panel) ThemeChanged(theme Theme) {
	p.mu.Lock()
	p.theme = theme
	p.mu.Unlock()

	p.surface.Publish(ThemeChanged{Theme: theme})
}

// Theme returns the last theme reported by the editor
func (p *Panel) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

// Snapshot returns the last trail that built successfully
func (p *Panel) Snapshot() *breadcrumb.Result {
	if result, ok := p.snapshots.Get(cache.KeyLastGood); ok {
		return result
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return &breadcrumb.Result{Trail: breadcrumb.Trail{}, ShowIcons: p.settings.ShowBreadcrumbIcons}
}

// Build computes a trail for path with the current settings without publishing it
func (p *Panel) Build(path string) (*breadcrumb.Result, error) {
	p.mu.Lock()
	opts := p.optionsLocked()
	p.mu.Unlock()

	return p.builder.Build(path, opts)
}

// Settings returns a copy of the current settings
func (p *Panel) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.settings
	s.WorkspaceFolders = append([]string(nil), p.settings.WorkspaceFolders...)
	return s
}

// UpdateSettings applies and persists a settings change, then rebuilds the trail.
// A failed rebuild is logged and leaves the previous trail in place.
func (p *Panel) UpdateSettings(update SettingsUpdate) (Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.settings
	if update.BreadcrumbFromWorkspaceRoot != nil {
		next.BreadcrumbFromWorkspaceRoot = *update.BreadcrumbFromWorkspaceRoot
	}
	if update.ShowBreadcrumbIcons != nil {
		next.ShowBreadcrumbIcons = *update.ShowBreadcrumbIcons
	}
	if update.FollowEditor != nil {
		next.FollowEditor = *update.FollowEditor
	}
	if update.LinkedToExplorer != nil {
		next.LinkedToExplorer = *update.LinkedToExplorer
	}

	persisted := next.BreadcrumbFromWorkspaceRoot != p.settings.BreadcrumbFromWorkspaceRoot ||
		next.ShowBreadcrumbIcons != p.settings.ShowBreadcrumbIcons
	if persisted && p.store != nil {
		if err := p.store.SaveBreadcrumbSettings(next.BreadcrumbFromWorkspaceRoot, next.ShowBreadcrumbIcons); err != nil {
			return p.settings, fmt.Errorf("failed to save settings: %w", err)
		}
	}

	resumed := next.FollowEditor && !p.settings.FollowEditor
	p.settings = next

	path := p.activePath
	if resumed {
		path = p.editorPath
	}
	if err := p.showLocked(path); err != nil {
		log.Printf("[panel] rebuild after settings change failed: %v", err)
	}

	return p.settings, nil
}

// Handle performs a command from the rendering surface
func (p *Panel) Handle(ctx context.Context, cmd Command) error {
	target := cmd.Target()
	if p.guard != nil && !p.guard.IsPathAllowed(target.Path) {
		return fmt.Errorf("%w: %s", files.ErrPathNotAllowed, target.Path)
	}

	switch c := cmd.(type) {
	case *OpenCommand:
		return p.open(c)

	case *CopyPathCommand:
		if err := p.clipboard.WriteAll(c.Item.Path); err != nil {
			log.Printf("[panel] clipboard unavailable, forwarding to editor: %v", err)
			p.host.Publish(CopyPathRequest{Path: c.Item.Path})
		}
		return nil

	case *RevealCommand:
		return spawnResult("explorer", p.shell.RevealInFileManager(ctx, c.Item.Path))

	case *TerminalCommand:
		return p.shell.OpenTerminal(ctx, c.Item.Path)

	case *ExternalTerminalCommand:
		return spawnResult("external terminal", p.shell.OpenExternalTerminal(ctx, c.Item.Path))

	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name())
	}
}

func (p *Panel) open(c *OpenCommand) error {
	if !c.Item.IsDir() {
		p.host.Publish(OpenFileRequest{Path: c.Item.Path})
		return nil
	}

	p.mu.Lock()
	link := p.settings.LinkedToExplorer
	p.mu.Unlock()
	if c.LinkWithExplorer != nil {
		link = *c.LinkWithExplorer
	}
	if link {
		p.host.Publish(RevealInExplorerRequest{Path: c.Item.Path})
	}

	return p.Navigate(c.Item.Path)
}

// showLocked builds and publishes path; on failure the previous trail stays current
func (p *Panel) showLocked(path string) error {
	result, err := p.builder.Build(path, p.optionsLocked())
	if err != nil {
		log.Printf("[panel] build failed for %q, keeping previous trail: %v", path, err)
		return err
	}

	p.activePath = path
	p.snapshots.Set(cache.KeyLastGood, result)
	p.surface.Publish(BreadcrumbsUpdated{Result: *result})
	if p.onTrail != nil {
		p.onTrail(result)
	}
	return nil
}

func (p *Panel) optionsLocked() breadcrumb.Options {
	return breadcrumb.Options{
		TruncateAtWorkspaceRoot: p.settings.BreadcrumbFromWorkspaceRoot && p.settings.WorkspaceRoot() != "",
		WorkspaceRoot:           p.settings.WorkspaceRoot(),
		ShowIcons:               p.settings.ShowBreadcrumbIcons,
		MaxDepth:                p.maxDepth,
	}
}

// spawnResult applies the fire-and-forget policy: spawn failures are logged, not returned
func spawnResult(what string, err error) error {
	if errors.Is(err, launcher.ErrSpawnFailed) {
		log.Printf("[panel] %s: %v", what, err)
		return nil
	}
	return err
}

// Close releases background resources
func (p *Panel) Close() {
	p.snapshots.Close()
}
