package panel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
)

var (
	// ErrUnknownCommand is returned for a command tag outside the supported set
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidCommand is returned when a command's payload cannot be used
	ErrInvalidCommand = errors.New("invalid command")
)

// Command tags sent by the rendering surface
const (
	CommandOpen                  = "open"
	CommandCopyPath              = "copyPath"
	CommandExplorerPath          = "explorerPath"
	CommandTerminalAtPath        = "terminalAtPath"
	CommandDesktopTerminalAtPath = "desktopTerminalAtPath"
)

// Command is a user intent posted by the rendering surface
type Command interface {
	Name() string
	Target() breadcrumb.Entry
}

// OpenCommand opens a file in the editor or navigates into a folder
type OpenCommand struct {
	Item breadcrumb.Entry `mapstructure:"breadcrumbItem"`
	// LinkWithExplorer overrides the panel's linked-to-explorer setting when present
	LinkWithExplorer *bool `mapstructure:"linkWithExplorer"`
}

// CopyPathCommand copies the item's path to the clipboard
type CopyPathCommand struct {
	Item breadcrumb.Entry `mapstructure:"breadcrumbItem"`
}

// RevealCommand shows the item in the system file manager
type RevealCommand struct {
	Item breadcrumb.Entry `mapstructure:"breadcrumbItem"`
}

// TerminalCommand opens an editor terminal at the item
type TerminalCommand struct {
	Item breadcrumb.Entry `mapstructure:"breadcrumbItem"`
}

// ExternalTerminalCommand opens an OS terminal at the item
type ExternalTerminalCommand struct {
	Item breadcrumb.Entry `mapstructure:"breadcrumbItem"`
}

func (c *OpenCommand) Name() string                         { return CommandOpen }
func (c *OpenCommand) Target() breadcrumb.Entry             { return c.Item }
func (c *CopyPathCommand) Name() string                     { return CommandCopyPath }
func (c *CopyPathCommand) Target() breadcrumb.Entry         { return c.Item }
func (c *RevealCommand) Name() string                       { return CommandExplorerPath }
func (c *RevealCommand) Target() breadcrumb.Entry           { return c.Item }
func (c *TerminalCommand) Name() string                     { return CommandTerminalAtPath }
func (c *TerminalCommand) Target() breadcrumb.Entry         { return c.Item }
func (c *ExternalTerminalCommand) Name() string             { return CommandDesktopTerminalAtPath }
func (c *ExternalTerminalCommand) Target() breadcrumb.Entry { return c.Item }

// DecodeCommand turns a raw surface message into its typed command
func DecodeCommand(raw map[string]any) (Command, error) {
	tag, _ := raw["command"].(string)

	var cmd Command
	switch tag {
	case CommandOpen:
		cmd = &OpenCommand{}
	case CommandCopyPath:
		cmd = &CopyPathCommand{}
	case CommandExplorerPath:
		cmd = &RevealCommand{}
	case CommandTerminalAtPath:
		cmd = &TerminalCommand{}
	case CommandDesktopTerminalAtPath:
		cmd = &ExternalTerminalCommand{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, tag)
	}

	if err := mapstructure.Decode(raw, cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	item := cmd.Target()
	if strings.TrimSpace(item.Path) == "" {
		return nil, fmt.Errorf("%w: breadcrumbItem.path is required", ErrInvalidCommand)
	}
	if tag == CommandOpen && item.Kind != breadcrumb.KindFile && item.Kind != breadcrumb.KindDirectory {
		return nil, fmt.Errorf("%w: unknown fileType %q", ErrInvalidCommand, item.Kind)
	}

	return cmd, nil
}

// Theme is the editor color theme family
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" in any case
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Message is pushed to the rendering surface
type Message interface {
	Event() string
}

// BreadcrumbsUpdated carries a freshly built trail
type BreadcrumbsUpdated struct {
	breadcrumb.Result
}

func (BreadcrumbsUpdated) Event() string { return "breadcrumbs" }

// ThemeChanged is a pass-through theme notification
type ThemeChanged struct {
	Theme Theme `json:"colorTheme"`
}

func (ThemeChanged) Event() string { return "colorTheme" }

// HostRequest is forwarded to the editor for actions only it can perform
type HostRequest interface {
	Event() string
}

// OpenFileRequest asks the editor to open a file
type OpenFileRequest struct {
	Path string `json:"path"`
}

func (OpenFileRequest) Event() string { return "open" }

// RevealInExplorerRequest asks the editor to reveal a folder in its file tree
type RevealInExplorerRequest struct {
	Path string `json:"path"`
}

func (RevealInExplorerRequest) Event() string { return "revealInExplorer" }

// OpenTerminalRequest asks the editor for an integrated terminal
type OpenTerminalRequest struct {
	Cwd  string `json:"cwd"`
	Name string `json:"name"`
}

func (OpenTerminalRequest) Event() string { return "terminal" }

// CopyPathRequest asks the editor to put a path on its clipboard
type CopyPathRequest struct {
	Path string `json:"path"`
}

func (CopyPathRequest) Event() string { return "copyPath" }
