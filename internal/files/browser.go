package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathNotAllowed is returned for paths outside the allowed roots
var ErrPathNotAllowed = errors.New("access denied: path not in allowed list")

// Browser is the read-only filesystem view used to build breadcrumbs and resolve action targets
type Browser struct {
	allowedPaths []string
	allowAll     bool
}

// NewBrowser creates a new file browser. An empty list or "*" allows every path.
func NewBrowser(allowedPaths []string) *Browser {
	allowAll := len(allowedPaths) == 0
	var cleaned []string
	for _, p := range allowedPaths {
		if p == "*" {
			allowAll = true
			break
		}
		if abs, err := filepath.Abs(p); err == nil {
			cleaned = append(cleaned, filepath.Clean(abs))
		}
	}

	return &Browser{
		allowedPaths: cleaned,
		allowAll:     allowAll,
	}
}

// GetAllowedPaths returns the list of allowed roots
func (b *Browser) GetAllowedPaths() []string {
	if b.allowAll {
		return []string{"*"}
	}
	return b.allowedPaths
}

// IsPathAllowed checks if a path is one of the allowed roots or lies beneath one.
// Matching is per path segment, so /home/al does not admit /home/alice.
func (b *Browser) IsPathAllowed(path string) bool {
	if b.allowAll {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)

	for _, allowed := range b.allowedPaths {
		if isWithin(allowed, absPath) {
			return true
		}
	}

	return false
}

// Stat follows symlinks
func (b *Browser) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists a directory in name order
func (b *Browser) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// ContainingDir returns path itself for directories and its parent for anything else
func (b *Browser) ContainingDir(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() {
		return absPath, nil
	}
	return filepath.Dir(absPath), nil
}

// Describe returns details about a single file or directory
func (b *Browser) Describe(path string) (*FileInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	if !b.IsPathAllowed(absPath) {
		return nil, ErrPathNotAllowed
	}

	return b.getFileInfo(absPath)
}

func (b *Browser) getFileInfo(path string) (*FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	fileInfo := &FileInfo{
		Name:        info.Name(),
		Path:        path,
		Size:        info.Size(),
		Mode:        info.Mode().String(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		IsSymlink:   info.Mode()&os.ModeSymlink != 0,
		Permissions: info.Mode().Perm().String(),
	}

	if fileInfo.IsSymlink {
		if target, err := os.Readlink(path); err == nil {
			fileInfo.LinkTarget = target
		}
		// Report what the link points at, the same way breadcrumbs classify it
		if st, err := os.Stat(path); err == nil {
			fileInfo.IsDir = st.IsDir()
		}
	}

	fileInfo.Owner, fileInfo.Group = ownership(info)

	return fileInfo, nil
}

func isWithin(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
