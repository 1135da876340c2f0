// Package utils contains general helper functions used across dirtree.
package utils

import "strings"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// AppendUniqueTrimmed appends each trimmed, non-empty addition not already present in base.
func AppendUniqueTrimmed(base []string, additions []string) []string {
	result := append([]string{}, base...)
	for _, addition := range additions {
		trimmedAddition := strings.TrimSpace(addition)
		if trimmedAddition == "" || ContainsString(result, trimmedAddition) {
			continue
		}
		result = append(result, trimmedAddition)
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}
