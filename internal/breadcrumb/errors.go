package breadcrumb

import (
	"errors"
	"fmt"
)

var (
	// ErrPathUnreadable is returned when a directory listing fails during a build
	ErrPathUnreadable = errors.New("path unreadable")

	// ErrAscentTooDeep is returned when ascent exceeds the configured depth bound
	ErrAscentTooDeep = errors.New("ascent exceeded maximum depth")
)

// PathUnreadableError carries the directory whose listing failed
type PathUnreadableError struct {
	Path string
	Err  error
}

func (e *PathUnreadableError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Path, e.Err)
}

func (e *PathUnreadableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPathUnreadable) hold for every listing failure
func (e *PathUnreadableError) Is(target error) bool {
	return target == ErrPathUnreadable
}
