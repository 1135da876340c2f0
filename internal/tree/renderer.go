// Package tree renders a directory hierarchy as ASCII-art lines.
//
// Each surviving entry is written as prefix + connector + name, where the
// connector is "+-- " for the last entry of a directory and "|-- " otherwise.
// Children of a directory inherit the parent's prefix extended by "    " when
// the parent was the last entry and by "|   " otherwise. Entries within a
// directory are sorted by name before excluded names are removed.
package tree

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/matcher"
)

const (
	branchConnector = "|-- "
	lastConnector   = "+-- "
	branchPadding   = "|   "
	lastPadding     = "    "

	// DefaultMaxDepth bounds descent when no explicit limit is configured.
	DefaultMaxDepth = 128

	lineTerminator = "\n"

	errorWriteLineFormat  = "writing tree line for %s: %w"
	errorCloseDirectory   = "closing directory %s: %w"
	warningSkipDirectory  = "Warning: skipping unreadable directory"
	logFieldPath          = "path"
	logFieldDepth         = "depth"
	debugListingDirectory = "listing directory"
)

// Options controls traversal behavior.
type Options struct {
	// MaxDepth is the deepest level of entries written below the rendered root.
	// Zero disables the guard.
	MaxDepth int
	// SkipUnreadable logs and skips nested directories that cannot be listed
	// instead of aborting the traversal. The starting directory is never skipped.
	SkipUnreadable bool
}

// DefaultOptions returns fail-fast options with the default depth guard.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Renderer writes directory trees filtered by a PatternSet.
type Renderer struct {
	fileSystem afero.Fs
	patterns   matcher.PatternSet
	options    Options
	logger     *zap.Logger
}

// NewRenderer constructs a Renderer. A nil logger discards diagnostics.
func NewRenderer(fileSystem afero.Fs, patterns matcher.PatternSet, options Options, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		fileSystem: fileSystem,
		patterns:   patterns,
		options:    options,
		logger:     logger,
	}
}

// Render lists directoryPath on the OS filesystem with default options.
func Render(directoryPath string, patterns []string, prefix string, sink io.Writer) error {
	renderer := NewRenderer(afero.NewOsFs(), matcher.Compile(patterns), DefaultOptions(), nil)
	return renderer.Render(directoryPath, prefix, sink)
}

// renderItem is one pending output line together with the context its
// children are rendered in.
type renderItem struct {
	path        string
	name        string
	linePrefix  string
	childPrefix string
	depth       int
}

// Render writes the children of directoryPath to sink in pre-order, each line
// starting with prefix. The starting directory itself is not written.
func (renderer *Renderer) Render(directoryPath string, prefix string, sink io.Writer) error {
	pending, listError := renderer.listItems(directoryPath, prefix, 1)
	if listError != nil {
		return listError
	}

	for len(pending) > 0 {
		item := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if _, writeError := io.WriteString(sink, item.linePrefix+item.name+lineTerminator); writeError != nil {
			return fmt.Errorf(errorWriteLineFormat, item.path, writeError)
		}
		if !renderer.isDirectory(item.path) {
			continue
		}

		children, childListError := renderer.listItems(item.path, item.childPrefix, item.depth+1)
		if childListError != nil {
			if !renderer.options.SkipUnreadable {
				return childListError
			}
			renderer.logger.Warn(warningSkipDirectory, zap.String(logFieldPath, item.path), zap.Error(childListError))
			continue
		}
		// Only surviving entries below the limit count against it.
		if len(children) > 0 && renderer.options.MaxDepth > 0 && item.depth >= renderer.options.MaxDepth {
			return &DepthLimitError{Path: item.path, Limit: renderer.options.MaxDepth}
		}
		pending = append(pending, children...)
	}
	return nil
}

// listItems returns the surviving children of directoryPath in reverse display
// order, ready to be pushed onto the pending stack.
func (renderer *Renderer) listItems(directoryPath string, prefix string, depth int) ([]renderItem, error) {
	renderer.logger.Debug(debugListingDirectory, zap.String(logFieldPath, directoryPath), zap.Int(logFieldDepth, depth))

	names, readError := renderer.readNames(directoryPath)
	if readError != nil {
		return nil, &DirectoryAccessError{Path: directoryPath, Err: readError}
	}
	sort.Strings(names)

	survivors := make([]string, 0, len(names))
	for _, name := range names {
		if renderer.patterns.Matches(name) {
			continue
		}
		survivors = append(survivors, name)
	}

	items := make([]renderItem, 0, len(survivors))
	for index := len(survivors) - 1; index >= 0; index-- {
		connector := branchConnector
		padding := branchPadding
		if index == len(survivors)-1 {
			connector = lastConnector
			padding = lastPadding
		}
		items = append(items, renderItem{
			path:        filepath.Join(directoryPath, survivors[index]),
			name:        survivors[index],
			linePrefix:  prefix + connector,
			childPrefix: prefix + padding,
			depth:       depth,
		})
	}
	return items, nil
}

func (renderer *Renderer) readNames(directoryPath string) (names []string, err error) {
	directory, openError := renderer.fileSystem.Open(directoryPath)
	if openError != nil {
		return nil, openError
	}
	defer func() {
		if closeError := directory.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseDirectory, directoryPath, closeError)
		}
	}()
	return directory.Readdirnames(-1)
}

// isDirectory follows symbolic links; entries that cannot be inspected are
// treated as files.
func (renderer *Renderer) isDirectory(path string) bool {
	info, statError := renderer.fileSystem.Stat(path)
	return statError == nil && info.IsDir()
}
