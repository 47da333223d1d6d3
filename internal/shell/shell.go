package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ngenohkevin/crumbdeck-agent/internal/launcher"
	"github.com/ngenohkevin/crumbdeck-agent/internal/system"
)

// ErrUnsupportedPlatform is returned for OS-level actions on platforms without an integration
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Integration opens OS tools rooted at a path
type Integration interface {
	RevealInFileManager(ctx context.Context, path string) error
	OpenTerminal(ctx context.Context, path string) error
	OpenExternalTerminal(ctx context.Context, path string) error
}

// Spawner starts a process and returns without waiting for it
type Spawner interface {
	Start(purpose, name string, args []string, dir string) (*launcher.Launch, error)
}

// DirResolver maps a file to its containing directory and leaves directories as they are
type DirResolver interface {
	ContainingDir(path string) (string, error)
}

// TerminalHost opens a terminal inside the editor
type TerminalHost interface {
	OpenTerminal(dir, name string) error
}

// Options holds the platform binaries that are configurable
type Options struct {
	FileManager      string
	ExternalTerminal string
	ScriptsDir       string
}

// New selects the integration for platform
func New(platform system.Platform, spawner Spawner, resolver DirResolver, host TerminalHost, opts Options) Integration {
	b := base{spawner: spawner, resolver: resolver, host: host}

	switch platform {
	case system.PlatformWindows:
		return &windows{base: b}
	case system.PlatformLinux:
		return &linux{base: b, fileManager: opts.FileManager, terminal: opts.ExternalTerminal}
	case system.PlatformDarwin:
		return &darwin{base: b, script: filepath.Join(opts.ScriptsDir, "cdterminal.scpt")}
	default:
		return &unsupported{base: b, platform: platform}
	}
}

// base carries what every platform shares, including the in-editor terminal
type base struct {
	spawner  Spawner
	resolver DirResolver
	host     TerminalHost
}

func (b base) OpenTerminal(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := b.resolver.ContainingDir(path)
	if err != nil {
		return err
	}

	if err := b.host.OpenTerminal(dir, filepath.Base(dir)); err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	return nil
}

func (b base) spawn(ctx context.Context, purpose, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.spawner.Start(purpose, name, args, "")
	return err
}

// externalDir resolves the working directory for an external terminal
func (b base) externalDir(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.resolver.ContainingDir(path)
}

type windows struct {
	base
}

func (w *windows) RevealInFileManager(ctx context.Context, path string) error {
	return w.spawn(ctx, "explorer", "cmd", "/C", "start", "explorer", "/e", ",", "/select", ",", path)
}

func (w *windows) OpenExternalTerminal(ctx context.Context, path string) error {
	dir, err := w.externalDir(ctx, path)
	if err != nil {
		return err
	}
	return w.spawn(ctx, "external-terminal", "cmd", "/K", "start", "cd", "/D", dir)
}

type linux struct {
	base
	fileManager string
	terminal    string
}

func (l *linux) RevealInFileManager(ctx context.Context, path string) error {
	return l.spawn(ctx, "explorer", l.fileManager, path)
}

func (l *linux) OpenExternalTerminal(ctx context.Context, path string) error {
	dir, err := l.externalDir(ctx, path)
	if err != nil {
		return err
	}
	return l.spawn(ctx, "external-terminal", l.terminal, "--working-directory="+dir)
}

type darwin struct {
	base
	script string
}

func (d *darwin) RevealInFileManager(ctx context.Context, path string) error {
	return d.spawn(ctx, "explorer", "/usr/bin/open", "-a", "/System/Library/CoreServices/Finder.app", path)
}

func (d *darwin) OpenExternalTerminal(ctx context.Context, path string) error {
	dir, err := d.externalDir(ctx, path)
	if err != nil {
		return err
	}
	return d.spawn(ctx, "external-terminal", "/usr/bin/osascript", d.script, dir)
}

type unsupported struct {
	base
	platform system.Platform
}

func (u *unsupported) RevealInFileManager(context.Context, string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, u.platform)
}

func (u *unsupported) OpenExternalTerminal(context.Context, string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, u.platform)
}
