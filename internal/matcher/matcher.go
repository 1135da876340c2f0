// Package matcher decides whether directory entry names are excluded by
// shell-style glob patterns.
//
// Patterns follow fnmatch conventions: '*' matches any run of characters,
// '?' matches exactly one character and '[...]' denotes a character class
// that may be negated with a leading '!'. Backslashes and braces carry no
// special meaning. Wildcards and classes match '/' like any other character.
// Matching is case-sensitive and anchored to the whole name.
package matcher

import (
	"path"
	"strings"
)

const (
	anyRunToken       = '*'
	anyCharacterToken = '?'
	classOpenToken    = '['
	classCloseToken   = ']'
	classNegateToken  = '!'
	classRangeToken   = '-'
	separator         = '/'

	escapeCharacter = `\`
	negatedClass    = "[^"

	// firstSeparatorStandIn starts the private use area searched for a rune
	// that replaces '/' when a name contains one.
	firstSeparatorStandIn = '\uE000'
)

// compiledPattern pairs the source pattern text with its path.Match form.
type compiledPattern struct {
	source     string
	expression string
}

// PatternSet is an immutable, ordered collection of compiled glob patterns.
// The zero value excludes nothing.
type PatternSet struct {
	patterns []compiledPattern
}

// Compile translates patterns into a PatternSet. An empty pattern matches only
// the empty name. Compilation never fails: every pattern has a well-defined
// meaning.
func Compile(patterns []string) PatternSet {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, compiledPattern{
			source:     pattern,
			expression: translate(pattern, separator),
		})
	}
	return PatternSet{patterns: compiled}
}

// Matches reports whether name matches any pattern in patterns.
func Matches(name string, patterns []string) bool {
	return Compile(patterns).Matches(name)
}

// Matches reports whether name matches any pattern in the set.
func (patternSet PatternSet) Matches(name string) bool {
	for _, pattern := range patternSet.patterns {
		if pattern.matches(name) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns in the set.
func (patternSet PatternSet) Len() int {
	return len(patternSet.patterns)
}

// Patterns returns a copy of the source patterns in load order.
func (patternSet PatternSet) Patterns() []string {
	sources := make([]string, 0, len(patternSet.patterns))
	for _, pattern := range patternSet.patterns {
		sources = append(sources, pattern.source)
	}
	return sources
}

// matches evaluates the pattern with path.Match. path.Match never lets a
// wildcard consume '/', so names containing one are matched with '/' replaced
// on both sides by a rune that occurs in neither.
func (pattern compiledPattern) matches(name string) bool {
	expression := pattern.expression
	subject := name
	if strings.ContainsRune(name, separator) {
		standIn := separatorStandIn(pattern.source, name)
		expression = translate(pattern.source, standIn)
		subject = strings.ReplaceAll(name, string(separator), string(standIn))
	}
	isMatched, matchError := path.Match(expression, subject)
	if matchError != nil {
		return name == pattern.source
	}
	return isMatched
}

func separatorStandIn(pattern string, name string) rune {
	standIn := rune(firstSeparatorStandIn)
	for strings.ContainsRune(pattern, standIn) || strings.ContainsRune(name, standIn) {
		standIn++
	}
	return standIn
}

// translate rewrites an fnmatch pattern into path.Match syntax, writing every
// literal '/' as slash. Every literal character is escaped, so the result is
// always well formed.
func translate(pattern string, slash rune) string {
	runes := []rune(pattern)
	var builder strings.Builder
	for index := 0; index < len(runes); {
		current := runes[index]
		index++
		switch current {
		case anyRunToken:
			builder.WriteRune(anyRunToken)
		case anyCharacterToken:
			builder.WriteRune(anyCharacterToken)
		case classOpenToken:
			closeIndex := findClassClose(runes, index)
			if closeIndex < 0 {
				writeLiteral(&builder, current, slash)
				continue
			}
			writeClass(&builder, runes[index:closeIndex], slash)
			index = closeIndex + 1
		default:
			writeLiteral(&builder, current, slash)
		}
	}
	return builder.String()
}

// findClassClose returns the index of the ']' terminating a class whose body
// starts at start, or -1 when the class is unterminated. A ']' directly after
// the opening bracket (or after '!') is part of the class.
func findClassClose(runes []rune, start int) int {
	index := start
	if index < len(runes) && runes[index] == classNegateToken {
		index++
	}
	if index < len(runes) && runes[index] == classCloseToken {
		index++
	}
	for index < len(runes) && runes[index] != classCloseToken {
		index++
	}
	if index >= len(runes) {
		return -1
	}
	return index
}

// writeClass emits a class body. A range spanning '/' also admits slash.
func writeClass(builder *strings.Builder, body []rune, slash rune) {
	if len(body) > 0 && body[0] == classNegateToken {
		builder.WriteString(negatedClass)
		body = body[1:]
	} else {
		builder.WriteRune(classOpenToken)
	}
	for index := 0; index < len(body); {
		if index+2 < len(body) && body[index+1] == classRangeToken {
			low, high := body[index], body[index+2]
			writeLiteral(builder, low, separator)
			builder.WriteRune(classRangeToken)
			writeLiteral(builder, high, separator)
			if slash != separator && low <= separator && separator <= high {
				writeLiteral(builder, slash, slash)
			}
			index += 3
			continue
		}
		writeLiteral(builder, body[index], slash)
		index++
	}
	builder.WriteRune(classCloseToken)
}

func writeLiteral(builder *strings.Builder, character rune, slash rune) {
	if character == separator {
		character = slash
	}
	builder.WriteString(escapeCharacter)
	builder.WriteRune(character)
}
