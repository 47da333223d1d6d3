package breadcrumb

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// DefaultMaxDepth bounds ascent when Options.MaxDepth is unset
const DefaultMaxDepth = 256

// FileSystem is the read-only view of the disk the builder needs
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// Builder turns an active path into a breadcrumb trail
type Builder struct {
	fs FileSystem
}

// NewBuilder creates a builder over the given filesystem
func NewBuilder(fsys FileSystem) *Builder {
	return &Builder{fs: fsys}
}

// Build computes the trail for activePath. An empty activePath yields an empty trail.
// A missing active path or a listing failure aborts the build with a *PathUnreadableError;
// kind lookups of listed entries never fail.
func (b *Builder) Build(activePath string, opts Options) (*Result, error) {
	result := &Result{
		Path:      activePath,
		Trail:     Trail{},
		ShowIcons: opts.ShowIcons,
	}
	if activePath == "" {
		return result, nil
	}

	current, err := filepath.Abs(activePath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	result.Path = current

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var workspaceRoot string
	if opts.TruncateAtWorkspaceRoot && opts.WorkspaceRoot != "" {
		workspaceRoot = filepath.Clean(opts.WorkspaceRoot)
	}

	// Collected leaf to root, reversed at the end
	var levels []Level

	// The active path itself must exist; only kind lookups of its siblings may fail quietly
	info, err := b.fs.Stat(current)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathUnreadableError{Path: current, Err: err}
	}

	if err == nil && info.IsDir() {
		entries, err := b.list(current, "")
		if err != nil {
			return nil, err
		}
		levels = append(levels, Level{Dir: current, Entries: entries})
	}

	for depth := 0; ; depth++ {
		parent := filepath.Dir(current)
		if parent == current {
			levels = append(levels, Level{Entries: []Entry{{
				Name:     current,
				Path:     current,
				Kind:     KindDirectory,
				Selected: true,
			}}})
			break
		}

		if depth >= maxDepth {
			return nil, fmt.Errorf("%w: %d levels above %s", ErrAscentTooDeep, maxDepth, result.Path)
		}

		entries, err := b.list(parent, filepath.Base(current))
		if err != nil {
			return nil, err
		}
		levels = append(levels, Level{Dir: parent, Entries: entries})

		if workspaceRoot != "" && parent == workspaceRoot {
			break
		}
		current = parent
	}

	trail := make(Trail, 0, len(levels))
	for i := len(levels) - 1; i >= 0; i-- {
		trail = append(trail, Level{Dir: levels[i].Dir, Entries: selectedFirst(levels[i].Entries)})
	}
	result.Trail = trail

	return result, nil
}

// list builds one entry per child of dir, marking the child named selected
func (b *Builder) list(dir, selected string) ([]Entry, error) {
	children, err := b.fs.ReadDir(dir)
	if err != nil {
		return nil, &PathUnreadableError{Path: dir, Err: err}
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		childPath := filepath.Join(dir, child.Name())
		entries = append(entries, Entry{
			Name:     child.Name(),
			Path:     childPath,
			Kind:     b.kindOf(childPath),
			Selected: selected != "" && child.Name() == selected,
		})
	}
	return entries, nil
}

// kindOf follows symlinks; anything that cannot be stat'ed is treated as a file
func (b *Builder) kindOf(path string) Kind {
	info, err := b.fs.Stat(path)
	if err != nil {
		return KindFile
	}
	if info.IsDir() {
		return KindDirectory
	}
	return KindFile
}

// selectedFirst returns a copy with the selected entry moved to the front.
// Single-entry levels and levels without a selection come back in their original order.
func selectedFirst(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	if len(entries) <= 1 {
		return append(out, entries...)
	}

	idx := -1
	for i, e := range entries {
		if e.Selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append(out, entries...)
	}

	out = append(out, entries[idx])
	out = append(out, entries[:idx]...)
	return append(out, entries[idx+1:]...)
}
