package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/temirov/dirtree/internal/utils"
)

const configurationType = "yaml"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user's home directory when non-empty.
	HomeDirectory string
	// FileSystem defaults to the OS filesystem.
	FileSystem afero.Fs
}

// ApplicationConfiguration holds command defaults read from configuration files.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree"`
}

// TreeConfiguration defines defaults for rendering. Nil pointers mean "not set".
type TreeConfiguration struct {
	MaxDepth       *int     `mapstructure:"max_depth"`
	SkipUnreadable *bool    `mapstructure:"skip_unreadable"`
	Exclude        []string `mapstructure:"exclude"`
	Copy           *bool    `mapstructure:"copy"`
	CopyOnly       *bool    `mapstructure:"copy_only"`
	// LegacyClipboard is accepted as an alias of Copy.
	LegacyClipboard *bool `mapstructure:"clipboard"`
}

// CopySettings captures the effective clipboard behavior.
type CopySettings struct {
	Copy     *bool
	CopyOnly *bool
}

// LoadApplicationConfiguration loads configuration from the global file and
// then the local (or explicit) file, later values overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(fileSystem, globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(fileSystem, localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Tree.Exclude = utils.DeduplicatePatterns(merged.Tree.Exclude)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

// loadConfigurationFromPath reads one YAML file. A missing file yields an empty
// configuration unless required is set.
func loadConfigurationFromPath(fileSystem afero.Fs, path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	reader.SetConfigType(configurationType)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	if config.Tree.MaxDepth != nil && *config.Tree.MaxDepth < 0 {
		return ApplicationConfiguration{}, fmt.Errorf("configuration %s: max_depth must not be negative", path)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.SkipUnreadable != nil {
		result.SkipUnreadable = cloneBool(override.SkipUnreadable)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.CopyOnly != nil {
		result.CopyOnly = cloneBool(override.CopyOnly)
	}
	if override.LegacyClipboard != nil {
		result.LegacyClipboard = cloneBool(override.LegacyClipboard)
	}
	return result
}

// CopySettings resolves the clipboard keys. copy_only implies copy, and the
// legacy clipboard key applies when copy is unset.
func (config TreeConfiguration) CopySettings() CopySettings {
	settings := CopySettings{
		Copy:     cloneBool(config.Copy),
		CopyOnly: cloneBool(config.CopyOnly),
	}
	if settings.Copy == nil && config.LegacyClipboard != nil {
		settings.Copy = cloneBool(config.LegacyClipboard)
	}
	if settings.CopyOnly != nil && *settings.CopyOnly {
		enabled := true
		settings.Copy = &enabled
	}
	return settings
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
