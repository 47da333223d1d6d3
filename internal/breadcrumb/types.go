package breadcrumb

// Kind distinguishes files from folders in a breadcrumb level
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "folder"
)

// Entry is one file or folder shown within a breadcrumb level
type Entry struct {
	Name     string `json:"basename" mapstructure:"basename"`
	Path     string `json:"path" mapstructure:"path"`
	Kind     Kind   `json:"fileType" mapstructure:"fileType"`
	Selected bool   `json:"selected" mapstructure:"selected"`
}

// IsDir reports whether the entry is a folder
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Level lists the siblings within one ancestor directory
type Level struct {
	// Dir is the directory whose children are listed; empty for the filesystem root level
	Dir     string  `json:"-"`
	Entries []Entry `json:"siblings"`
}

// Selected returns the selected entry of the level, if any
func (l Level) Selected() (Entry, bool) {
	for _, e := range l.Entries {
		if e.Selected {
			return e, true
		}
	}
	return Entry{}, false
}

// Trail runs from the filesystem (or workspace) root down to the active path
type Trail []Level

// Options controls a single build
type Options struct {
	// TruncateAtWorkspaceRoot stops ascent at WorkspaceRoot when it is an ancestor
	TruncateAtWorkspaceRoot bool
	WorkspaceRoot           string

	// ShowIcons is passed through to the rendering surface untouched
	ShowIcons bool

	// MaxDepth bounds the number of ancestor directories listed; zero means DefaultMaxDepth
	MaxDepth int
}

// Result is an immutable snapshot handed to the rendering surface
type Result struct {
	Path      string `json:"fsPath"`
	Trail     Trail  `json:"breadcrumbs"`
	ShowIcons bool   `json:"showBreadcrumbIcons"`
}

// Directories returns every directory listed in the trail, root first
func (r *Result) Directories() []string {
	if r == nil {
		return nil
	}
	var dirs []string
	for _, level := range r.Trail {
		if level.Dir != "" {
			dirs = append(dirs, level.Dir)
		}
	}
	return dirs
}

// Empty reports whether the result carries no levels
func (r *Result) Empty() bool {
	return r == nil || len(r.Trail) == 0
}
