package panel

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no system clipboard tool is installed
var ErrClipboardUnavailable = errors.New("system clipboard unavailable")

// Clipboard writes text to a clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the OS clipboard
type SystemClipboard struct{}

// WriteAll implements Clipboard
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}
