package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/temirov/dirtree/internal/utils"
)

const (
	testHomeDirectory    = "/home/tester"
	testWorkingDirectory = "/work"
)

type configTestCase struct {
	name                 string
	globalContent        string
	localContent         string
	explicitPath         string
	explicitContent      string
	expectMaxDepth       *int
	expectSkipUnreadable *bool
	expectExclude        []string
	expectCopy           *bool
	expectCopyOnly       *bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:                 "local_overrides_global",
			globalContent:        "tree:\n  max_depth: 10\n  skip_unreadable: true\n  copy: true\n",
			localContent:         "tree:\n  max_depth: 3\n  copy: false\n",
			expectMaxDepth:       intPointer(3),
			expectSkipUnreadable: boolPointer(true),
			expectCopy:           boolPointer(false),
		},
		{
			name:          "exclude_deduplicated",
			localContent:  "tree:\n  exclude:\n    - \"*.log\"\n    - vendor\n    - \"*.log\"\n",
			expectExclude: []string{"*.log", "vendor"},
		},
		{
			name:                 "explicit_path_replaces_local",
			globalContent:        "tree:\n  max_depth: 10\n",
			localContent:         "tree:\n  max_depth: 3\n",
			explicitPath:         "custom.yml",
			explicitContent:      "tree:\n  skip_unreadable: true\n",
			expectMaxDepth:       intPointer(10),
			expectSkipUnreadable: boolPointer(true),
		},
		{
			name:           "copy_only_key_applies",
			globalContent:  "tree:\n  copy_only: true\n",
			expectCopy:     boolPointer(true),
			expectCopyOnly: boolPointer(true),
		},
		{
			name:         "legacy_clipboard_key",
			localContent: "tree:\n  clipboard: true\n",
			expectCopy:   boolPointer(true),
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			fileSystem := afero.NewMemMapFs()
			if testCase.globalContent != "" {
				globalPath := filepath.Join(testHomeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
				writeConfig(t, fileSystem, globalPath, testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfig(t, fileSystem, filepath.Join(testWorkingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeConfig(t, fileSystem, filepath.Join(testWorkingDirectory, testCase.explicitPath), testCase.explicitContent)
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: testWorkingDirectory,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    testHomeDirectory,
				FileSystem:       fileSystem,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			assertIntPointer(t, "max_depth", loadedConfig.Tree.MaxDepth, testCase.expectMaxDepth)
			assertBoolPointer(t, "skip_unreadable", loadedConfig.Tree.SkipUnreadable, testCase.expectSkipUnreadable)
			copySettings := loadedConfig.Tree.CopySettings()
			assertBoolPointer(t, "copy", copySettings.Copy, testCase.expectCopy)
			assertBoolPointer(t, "copy_only", copySettings.CopyOnly, testCase.expectCopyOnly)
			if len(testCase.expectExclude) > 0 || len(loadedConfig.Tree.Exclude) > 0 {
				if !reflect.DeepEqual(loadedConfig.Tree.Exclude, testCase.expectExclude) {
					t.Fatalf("exclude: got %v want %v", loadedConfig.Tree.Exclude, testCase.expectExclude)
				}
			}
		})
	}
}

func TestLoadApplicationConfigurationErrors(t *testing.T) {
	testCases := []struct {
		name          string
		localContent  string
		explicitPath  string
		expectMessage string
	}{
		{name: "missing_explicit_file", explicitPath: "absent.yaml", expectMessage: "stat configuration"},
		{name: "invalid_yaml", localContent: "tree: [unclosed\n", expectMessage: "read configuration"},
		{name: "negative_depth", localContent: "tree:\n  max_depth: -1\n", expectMessage: "max_depth"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			fileSystem := afero.NewMemMapFs()
			if testCase.localContent != "" {
				writeConfig(t, fileSystem, filepath.Join(testWorkingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			_, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: testWorkingDirectory,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    testHomeDirectory,
				FileSystem:       fileSystem,
			})
			if err == nil || !strings.Contains(err.Error(), testCase.expectMessage) {
				t.Fatalf("expected error containing %q, got %v", testCase.expectMessage, err)
			}
		})
	}
}

func TestTreeMergeKeepsUnsetFields(t *testing.T) {
	base := TreeConfiguration{MaxDepth: intPointer(5), Exclude: []string{"a"}}
	merged := base.merge(TreeConfiguration{SkipUnreadable: boolPointer(true)})
	if merged.MaxDepth == nil || *merged.MaxDepth != 5 {
		t.Fatalf("max depth lost during merge")
	}
	if !reflect.DeepEqual(merged.Exclude, []string{"a"}) {
		t.Fatalf("exclude lost during merge: %v", merged.Exclude)
	}
	if merged.SkipUnreadable == nil || !*merged.SkipUnreadable {
		t.Fatalf("skip_unreadable not applied")
	}
}

func TestCopySettingsCopyOnlyImpliesCopy(t *testing.T) {
	settings := TreeConfiguration{Copy: boolPointer(false), CopyOnly: boolPointer(true)}.CopySettings()
	if settings.Copy == nil || !*settings.Copy {
		t.Fatalf("expected copy to be enabled when copy_only is true")
	}
}

func writeConfig(t *testing.T, fileSystem afero.Fs, path string, content string) {
	t.Helper()
	if writeError := afero.WriteFile(fileSystem, path, []byte(content), 0o600); writeError != nil {
		t.Fatalf("write %s: %v", path, writeError)
	}
}

func assertBoolPointer(t *testing.T, field string, actual *bool, expected *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("%s: expected unset, got %t", field, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("%s: expected %t, got %v", field, *expected, actual)
	}
}

func assertIntPointer(t *testing.T, field string, actual *int, expected *int) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("%s: expected unset, got %d", field, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("%s: expected %d, got %v", field, *expected, actual)
	}
}
