// Package config loads omission pattern files and application configuration.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// ErrPatternFile classifies failures to open or read an omission pattern file.
var ErrPatternFile = errors.New("pattern file error")

const (
	patternFileErrorFormat = "%v: %s: %v"
	errorClosePatternFile  = "closing %s: %w"

	initialScanBufferSize = 64 * 1024
	maximumPatternLength  = 1024 * 1024
)

// PatternFileError reports an omission pattern file that is missing or unreadable.
type PatternFileError struct {
	Path string
	Err  error
}

func (patternError *PatternFileError) Error() string {
	return fmt.Sprintf(patternFileErrorFormat, ErrPatternFile, patternError.Path, patternError.Err)
}

// Unwrap returns the underlying filesystem error.
func (patternError *PatternFileError) Unwrap() error {
	return patternError.Err
}

// Is reports whether target is ErrPatternFile.
func (patternError *PatternFileError) Is(target error) bool {
	return target == ErrPatternFile
}

// LoadPatternFile reads one glob pattern per line from patternFilePath.
// Lines are trimmed of surrounding whitespace, blank lines are dropped, and
// the remaining patterns keep their file order. There is no comment syntax.
//
// #nosec G304
func LoadPatternFile(fileSystem afero.Fs, patternFilePath string) (patterns []string, err error) {
	fileHandle, openFileError := fileSystem.Open(patternFilePath)
	if openFileError != nil {
		return nil, &PatternFileError{Path: patternFilePath, Err: openFileError}
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = &PatternFileError{Path: patternFilePath, Err: fmt.Errorf(errorClosePatternFile, patternFilePath, closeError)}
		}
	}()

	patterns = []string{}
	scanner := bufio.NewScanner(fileHandle)
	scanner.Buffer(make([]byte, 0, initialScanBufferSize), maximumPatternLength)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, &PatternFileError{Path: patternFilePath, Err: scanError}
	}
	return patterns, nil
}
