// Package commands contains the core logic behind each command.
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/matcher"
	"github.com/temirov/dirtree/internal/tree"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	// errorWriteRootFormat is used when the root line cannot be written.
	errorWriteRootFormat = "writing root line for %s: %w"

	debugPatternsLoaded = "loaded omission patterns"
	logFieldCount       = "count"
	logFieldPatterns    = "patterns"
	logFieldPatternFile = "pattern_file"
)

var errNotDirectory = errors.New("not a directory")

// TreeRequest describes one tree rendering.
type TreeRequest struct {
	RootPath        string
	PatternFilePath string
	// ExtraPatterns are appended after the pattern file's patterns.
	ExtraPatterns []string
	Options       tree.Options
}

// RunTree loads the omission patterns, writes the root path as given, and
// renders the tree below it. The pattern file and the root are validated before
// anything is written to sink.
func RunTree(fileSystem afero.Fs, request TreeRequest, sink io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	filePatterns, loadError := config.LoadPatternFile(fileSystem, request.PatternFilePath)
	if loadError != nil {
		return loadError
	}
	patternSet := matcher.Compile(utils.AppendUniqueTrimmed(filePatterns, request.ExtraPatterns))
	logger.Debug(debugPatternsLoaded,
		zap.String(logFieldPatternFile, request.PatternFilePath),
		zap.Int(logFieldCount, patternSet.Len()),
		zap.Strings(logFieldPatterns, patternSet.Patterns()),
	)

	rootInfo, statError := fileSystem.Stat(request.RootPath)
	if statError != nil {
		return &tree.DirectoryAccessError{Path: request.RootPath, Err: statError}
	}
	if !rootInfo.IsDir() {
		return &tree.DirectoryAccessError{Path: request.RootPath, Err: errNotDirectory}
	}

	if _, writeError := fmt.Fprintln(sink, request.RootPath); writeError != nil {
		return fmt.Errorf(errorWriteRootFormat, request.RootPath, writeError)
	}
	renderer := tree.NewRenderer(fileSystem, patternSet, request.Options, logger)
	return renderer.Render(request.RootPath, "", sink)
}
