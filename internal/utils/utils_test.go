package utils_test

import (
	"reflect"
	"testing"

	"github.com/temirov/dirtree/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	actual := utils.DeduplicatePatterns([]string{"*.log", "build", "*.log", "dist", "build"})
	expected := []string{"*.log", "build", "dist"}
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("got %v want %v", actual, expected)
	}
}

func TestAppendUniqueTrimmed(t *testing.T) {
	testCases := []struct {
		name      string
		base      []string
		additions []string
		expected  []string
	}{
		{name: "appends_new", base: []string{"a"}, additions: []string{"b"}, expected: []string{"a", "b"}},
		{name: "skips_existing", base: []string{"a"}, additions: []string{" a "}, expected: []string{"a"}},
		{name: "skips_blank", base: nil, additions: []string{"", "  "}, expected: []string{}},
		{name: "keeps_order", base: []string{"z"}, additions: []string{"y", "x", "y"}, expected: []string{"z", "y", "x"}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			actual := utils.AppendUniqueTrimmed(testCase.base, testCase.additions)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("got %v want %v", actual, testCase.expected)
			}
		})
	}
}

func TestAppendUniqueTrimmedDoesNotAliasBase(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "a"
	_ = utils.AppendUniqueTrimmed(base, []string{"b"})
	extended := base[:2]
	if extended[1] == "b" {
		t.Fatalf("base backing array was modified")
	}
}

func TestGetApplicationVersionPrefersInjectedVersion(t *testing.T) {
	original := utils.Version
	t.Cleanup(func() { utils.Version = original })
	utils.Version = "v9.9.9"
	if version := utils.GetApplicationVersion(); version != "v9.9.9" {
		t.Fatalf("got %s", version)
	}
}

func TestNewApplicationLogger(t *testing.T) {
	logger, buildError := utils.NewApplicationLogger()
	if buildError != nil {
		t.Fatalf("NewApplicationLogger error: %v", buildError)
	}
	if logger == nil {
		t.Fatalf("expected logger")
	}
}
