package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/launcher"
	"github.com/ngenohkevin/crumbdeck-agent/internal/system"
)

type spawnCall struct {
	purpose string
	name    string
	args    []string
}

type fakeSpawner struct {
	calls []spawnCall
	err   error
}

func (f *fakeSpawner) Start(purpose, name string, args []string, dir string) (*launcher.Launch, error) {
	f.calls = append(f.calls, spawnCall{purpose: purpose, name: name, args: args})
	return &launcher.Launch{Purpose: purpose, Command: name, Args: args}, f.err
}

type fakeHost struct {
	dir, name string
}

func (f *fakeHost) OpenTerminal(dir, name string) error {
	f.dir, f.name = dir, name
	return nil
}

func fixture(t *testing.T) (dir, file string) {
	t.Helper()
	dir = filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.Mkdir(dir, 0o755))
	file = filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main"), 0o644))
	return dir, file
}

func newIntegration(platform system.Platform) (Integration, *fakeSpawner, *fakeHost) {
	sp := &fakeSpawner{}
	host := &fakeHost{}
	integ := New(platform, sp, files.NewBrowser(nil), host, Options{
		FileManager:      "/usr/bin/nautilus",
		ExternalTerminal: "gnome-terminal",
		ScriptsDir:       "/opt/crumbdeck/scripts",
	})
	return integ, sp, host
}

func TestRevealInFileManager(t *testing.T) {
	_, file := fixture(t)

	tests := []struct {
		platform system.Platform
		want     spawnCall
	}{
		{system.PlatformWindows, spawnCall{"explorer", "cmd", []string{"/C", "start", "explorer", "/e", ",", "/select", ",", file}}},
		{system.PlatformLinux, spawnCall{"explorer", "/usr/bin/nautilus", []string{file}}},
		{system.PlatformDarwin, spawnCall{"explorer", "/usr/bin/open", []string{"-a", "/System/Library/CoreServices/Finder.app", file}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			integ, sp, _ := newIntegration(tt.platform)

			require.NoError(t, integ.RevealInFileManager(context.Background(), file))
			require.Len(t, sp.calls, 1)
			assert.Equal(t, tt.want, sp.calls[0])
		})
	}
}

func TestOpenExternalTerminal_ResolvesContainingDir(t *testing.T) {
	dir, file := fixture(t)

	tests := []struct {
		platform system.Platform
		want     spawnCall
	}{
		{system.PlatformWindows, spawnCall{"external-terminal", "cmd", []string{"/K", "start", "cd", "/D", dir}}},
		{system.PlatformLinux, spawnCall{"external-terminal", "gnome-terminal", []string{"--working-directory=" + dir}}},
		{system.PlatformDarwin, spawnCall{"external-terminal", "/usr/bin/osascript", []string{"/opt/crumbdeck/scripts/cdterminal.scpt", dir}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			integ, sp, _ := newIntegration(tt.platform)

			require.NoError(t, integ.OpenExternalTerminal(context.Background(), file))
			require.Len(t, sp.calls, 1)
			assert.Equal(t, tt.want, sp.calls[0])
		})
	}
}

func TestOpenTerminal_UsesEditorHost(t *testing.T) {
	dir, file := fixture(t)
	integ, sp, host := newIntegration(system.PlatformLinux)

	require.NoError(t, integ.OpenTerminal(context.Background(), file))
	assert.Empty(t, sp.calls)
	assert.Equal(t, dir, host.dir)
	assert.Equal(t, "project", host.name)

	require.NoError(t, integ.OpenTerminal(context.Background(), dir))
	assert.Equal(t, dir, host.dir)
}

func TestOpenTerminal_MissingPath(t *testing.T) {
	integ, _, _ := newIntegration(system.PlatformLinux)

	err := integ.OpenTerminal(context.Background(), filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestUnsupportedPlatform(t *testing.T) {
	dir, _ := fixture(t)
	integ, sp, host := newIntegration(system.PlatformUnknown)

	assert.ErrorIs(t, integ.RevealInFileManager(context.Background(), dir), ErrUnsupportedPlatform)
	assert.ErrorIs(t, integ.OpenExternalTerminal(context.Background(), dir), ErrUnsupportedPlatform)
	assert.Empty(t, sp.calls)

	// the editor terminal does not depend on the OS
	require.NoError(t, integ.OpenTerminal(context.Background(), dir))
	assert.Equal(t, dir, host.dir)
}

func TestSpawnErrorPropagates(t *testing.T) {
	dir, _ := fixture(t)
	integ, sp, _ := newIntegration(system.PlatformLinux)
	sp.err = launcher.ErrSpawnFailed

	err := integ.RevealInFileManager(context.Background(), dir)
	assert.True(t, errors.Is(err, launcher.ErrSpawnFailed))
}

func TestCancelledContext(t *testing.T) {
	dir, _ := fixture(t)
	integ, sp, _ := newIntegration(system.PlatformLinux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, integ.RevealInFileManager(ctx, dir), context.Canceled)
	assert.Empty(t, sp.calls)
}
