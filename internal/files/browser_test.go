package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrowser_AllowAll(t *testing.T) {
	assert.True(t, NewBrowser(nil).IsPathAllowed("/etc"))
	assert.True(t, NewBrowser([]string{"*"}).IsPathAllowed("/anything"))
	assert.Equal(t, []string{"*"}, NewBrowser(nil).GetAllowedPaths())
}

func TestIsPathAllowed_SegmentBoundary(t *testing.T) {
	b := NewBrowser([]string{"/home/al"})

	assert.True(t, b.IsPathAllowed("/home/al"))
	assert.True(t, b.IsPathAllowed("/home/al/src/main.go"))
	assert.False(t, b.IsPathAllowed("/home/alice"))
	assert.False(t, b.IsPathAllowed("/home"))
	assert.False(t, b.IsPathAllowed("/home/al/../alice"))
}

func TestContainingDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	b := NewBrowser(nil)

	got, err := b.ContainingDir(file)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = b.ContainingDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = b.ContainingDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestReadDir_NameOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	entries, err := NewBrowser(nil).ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.txt", entries[0].Name())
	assert.Equal(t, "b.txt", entries[1].Name())
	assert.Equal(t, "c.txt", entries[2].Name())
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(sub, link))

	b := NewBrowser([]string{dir})

	info, err := b.Describe(link)
	require.NoError(t, err)
	assert.True(t, info.IsSymlink)
	assert.True(t, info.IsDir)
	assert.Equal(t, sub, info.LinkTarget)

	_, err = b.Describe("/")
	assert.ErrorIs(t, err, ErrPathNotAllowed)
}
