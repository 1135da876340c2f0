package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryAccess classifies failures to list a directory.
	ErrDirectoryAccess = errors.New("directory access error")
	// ErrDepthLimitExceeded classifies traversals stopped by the depth guard.
	ErrDepthLimitExceeded = errors.New("depth limit exceeded")
)

const (
	directoryAccessErrorFormat = "%v: cannot list %s: %v"
	depthLimitErrorFormat      = "%v: %s has entries deeper than %d levels"
)

// DirectoryAccessError reports a directory that could not be listed because it
// is missing, unreadable, or not a directory.
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (accessError *DirectoryAccessError) Error() string {
	return fmt.Sprintf(directoryAccessErrorFormat, ErrDirectoryAccess, accessError.Path, accessError.Err)
}

// Unwrap returns the underlying filesystem error.
func (accessError *DirectoryAccessError) Unwrap() error {
	return accessError.Err
}

// Is reports whether target is ErrDirectoryAccess.
func (accessError *DirectoryAccessError) Is(target error) bool {
	return target == ErrDirectoryAccess
}

// DepthLimitError reports a directory at the depth limit whose entries would
// have been written below it.
type DepthLimitError struct {
	Path  string
	Limit int
}

func (limitError *DepthLimitError) Error() string {
	return fmt.Sprintf(depthLimitErrorFormat, ErrDepthLimitExceeded, limitError.Path, limitError.Limit)
}

// Is reports whether target is ErrDepthLimitExceeded.
func (limitError *DepthLimitError) Is(target error) bool {
	return target == ErrDepthLimitExceeded
}
