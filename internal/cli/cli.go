// Package cli provides the command line interface.
package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/commands"
	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/services/clipboard"
	"github.com/temirov/dirtree/internal/tree"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	rootUse              = "dirtree <dir_path> <omit_file>"
	rootShortDescription = "print a directory tree omitting entries that match glob patterns"
	rootLongDescription  = `dirtree prints the hierarchy below dir_path as ASCII art.
Entries whose names match any glob pattern listed in omit_file (one pattern per
line) are left out together with everything below them. Entries are sorted by
name. The traversal stops at the first directory that cannot be listed unless
--skip-unreadable is given.`
	rootUsageExample = `  # Render the current project without build output
  dirtree . .treeignore

  # Copy the rendered tree to the clipboard as well
  dirtree --copy ./src omit.txt`
	versionTemplate = "dirtree version: {{.Version}}\n"

	configFlagName         = "config"
	maxDepthFlagName       = "max-depth"
	skipUnreadableFlagName = "skip-unreadable"
	copyFlagName           = "copy"
	copyOnlyFlagName       = "copy-only"
	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"

	configFlagDescription         = "configuration file (defaults to ./" + utils.ConfigFileName + ")"
	maxDepthFlagDescription       = "deepest directory level to descend into; 0 disables the limit"
	skipUnreadableFlagDescription = "log and skip nested directories that cannot be listed"
	copyFlagDescription           = "copy the rendered tree to the clipboard"
	copyOnlyFlagDescription       = "copy the rendered tree to the clipboard without printing it"
	exclusionFlagDescription      = "additional glob pattern to omit (repeatable)"

	requiredArgumentCount = 2

	errorNegativeDepthFormat = "--%s must not be negative, got %d"
	errorLoadConfigFormat    = "loading configuration: %w"
	errorCopyFormat          = "copying tree to clipboard: %w"
	errorFlushFormat         = "flushing output: %w"
)

// Dependencies carries the collaborators used by the root command.
type Dependencies struct {
	FileSystem       afero.Fs
	Logger           *zap.Logger
	Copier           clipboard.Copier
	WorkingDirectory string
	HomeDirectory    string
}

// Execute runs the dirtree application against the real environment.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{
		FileSystem: afero.NewOsFs(),
		Logger:     logger,
		Copier:     clipboard.NewService(),
	})
	return rootCommand.Execute()
}

// flagOptions stores values parsed from the command line.
type flagOptions struct {
	configPath        string
	maxDepth          int
	skipUnreadable    bool
	copyEnabled       bool
	copyOnly          bool
	exclusionPatterns []string
}

// runSettings is the effective configuration after merging files and flags.
type runSettings struct {
	options       tree.Options
	extraPatterns []string
	copyEnabled   bool
	copyOnly      bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}

	var flags flagOptions
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.ExactArgs(requiredArgumentCount),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsError := resolveSettings(command, flags, dependencies)
			if settingsError != nil {
				return settingsError
			}
			request := commands.TreeRequest{
				RootPath:        arguments[0],
				PatternFilePath: arguments[1],
				ExtraPatterns:   settings.extraPatterns,
				Options:         settings.options,
			}
			return runTree(command.OutOrStdout(), request, settings, dependencies)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.IntVar(&flags.maxDepth, maxDepthFlagName, tree.DefaultMaxDepth, maxDepthFlagDescription)
	registerBooleanFlag(flagSet, &flags.skipUnreadable, skipUnreadableFlagName, false, skipUnreadableFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyEnabled, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyOnly, copyOnlyFlagName, false, copyOnlyFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	return rootCommand
}

// resolveSettings layers explicitly set flags over configuration file values
// over built-in defaults.
func resolveSettings(command *cobra.Command, flags flagOptions, dependencies Dependencies) (runSettings, error) {
	applicationConfig, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
		FileSystem:       dependencies.FileSystem,
	})
	if loadError != nil {
		return runSettings{}, fmt.Errorf(errorLoadConfigFormat, loadError)
	}
	treeConfig := applicationConfig.Tree
	copySettings := treeConfig.CopySettings()

	settings := runSettings{options: tree.DefaultOptions()}
	if treeConfig.MaxDepth != nil {
		settings.options.MaxDepth = *treeConfig.MaxDepth
	}
	if treeConfig.SkipUnreadable != nil {
		settings.options.SkipUnreadable = *treeConfig.SkipUnreadable
	}
	if copySettings.Copy != nil {
		settings.copyEnabled = *copySettings.Copy
	}
	if copySettings.CopyOnly != nil {
		settings.copyOnly = *copySettings.CopyOnly
	}

	changed := command.Flags().Changed
	if changed(maxDepthFlagName) {
		if flags.maxDepth < 0 {
			return runSettings{}, fmt.Errorf(errorNegativeDepthFormat, maxDepthFlagName, flags.maxDepth)
		}
		settings.options.MaxDepth = flags.maxDepth
	}
	if changed(skipUnreadableFlagName) {
		settings.options.SkipUnreadable = flags.skipUnreadable
	}
	if changed(copyFlagName) {
		settings.copyEnabled = flags.copyEnabled
	}
	if changed(copyOnlyFlagName) {
		settings.copyOnly = flags.copyOnly
	}
	if settings.copyOnly {
		settings.copyEnabled = true
	}

	settings.extraPatterns = utils.AppendUniqueTrimmed(treeConfig.Exclude, flags.exclusionPatterns)
	return settings, nil
}

// runTree renders into a buffered stdout writer, teeing into a capture buffer
// when the result is copied to the clipboard.
func runTree(stdout io.Writer, request commands.TreeRequest, settings runSettings, dependencies Dependencies) error {
	var captured bytes.Buffer
	bufferedStdout := bufio.NewWriter(stdout)

	var sink io.Writer = bufferedStdout
	switch {
	case settings.copyOnly:
		sink = &captured
	case settings.copyEnabled:
		sink = io.MultiWriter(bufferedStdout, &captured)
	}

	runError := commands.RunTree(dependencies.FileSystem, request, sink, dependencies.Logger)
	if flushError := bufferedStdout.Flush(); flushError != nil && runError == nil {
		runError = fmt.Errorf(errorFlushFormat, flushError)
	}
	if runError != nil {
		return runError
	}

	if settings.copyEnabled {
		if copyError := dependencies.Copier.Copy(captured.String()); copyError != nil {
			return fmt.Errorf(errorCopyFormat, copyError)
		}
	}
	return nil
}
