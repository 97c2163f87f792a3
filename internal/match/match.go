// Package match evaluates user-supplied glob exclusion patterns against
// repo-root-relative, forward-slash file paths.
package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrBadPattern is returned by Compile for a malformed exclusion pattern.
var ErrBadPattern = errors.New("malformed exclusion pattern")

// Matcher holds a compiled set of exclusion patterns.
// A nil or empty Matcher matches nothing.
type Matcher struct {
	compiled []*regexp.Regexp
}

// Compile validates and compiles a set of glob patterns.
// Supported syntax: `*` matches any run of characters, including path
// separators; `?` matches a single character within a segment; `[...]`
// matches a character class (`[!...]` negates). Matching is case-sensitive.
func Compile(patterns []string) (*Matcher, error) {
	matcher := &Matcher{}

	for _, pattern := range patterns {
		expr, err := translate(pattern)
		if err != nil {
			return nil, err
		}

		compiled, compileErr := regexp.Compile(expr)
		if compileErr != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadPattern, pattern, compileErr)
		}

		matcher.compiled = append(matcher.compiled, compiled)
	}

	return matcher, nil
}

// Matches reports whether relPath matches any compiled pattern.
// relPath must use forward-slash separators.
func (m *Matcher) Matches(relPath string) bool {
	if m == nil {
		return false
	}

	for _, pattern := range m.compiled {
		if pattern.MatchString(relPath) {
			return true
		}
	}

	return false
}

// translate converts a glob pattern to an anchored regular expression.
func translate(pattern string) (string, error) {
	var builder strings.Builder

	builder.WriteString("^(?:")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			builder.WriteString(".*")
		case '?':
			builder.WriteString("[^/]")
		case '[':
			class, consumed, err := translateClass(runes[i:])
			if err != nil {
				return "", fmt.Errorf("%w: %q", err, pattern)
			}

			builder.WriteString(class)

			i += consumed - 1
		default:
			builder.WriteString(regexp.QuoteMeta(string(runes[i])))
		}
	}

	builder.WriteString(")$")

	return builder.String(), nil
}

// translateClass converts a `[...]` class starting at runes[0] and returns
// the regexp fragment plus the number of runes consumed.
func translateClass(runes []rune) (string, int, error) {
	var builder strings.Builder

	builder.WriteByte('[')

	i := 1
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		builder.WriteByte('^')
		i++
	}

	closed := false
	empty := true

	for ; i < len(runes); i++ {
		if runes[i] == ']' && !empty {
			closed = true
			break
		}

		if runes[i] == '\\' {
			// Backslash escapes the next rune, so `[\]]` matches a
			// literal bracket instead of closing the class.
			i++
			if i >= len(runes) {
				return "", 0, ErrBadPattern
			}

			writeClassLiteral(&builder, runes[i])
			empty = false

			continue
		}

		builder.WriteRune(runes[i])
		empty = false
	}

	if !closed {
		return "", 0, ErrBadPattern
	}

	builder.WriteByte(']')

	return builder.String(), i + 1, nil
}

// writeClassLiteral emits one escaped rune inside a character class.
// Letters and digits go in bare so they cannot form regexp class
// shorthands; everything else is backslash-escaped to stay literal.
func writeClassLiteral(builder *strings.Builder, r rune) {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		builder.WriteRune(r)

		return
	}

	builder.WriteByte('\\')
	builder.WriteRune(r)
}
