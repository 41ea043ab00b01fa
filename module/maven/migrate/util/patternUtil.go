package util

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

/* Patterns support * and ** wildcards against "group/name":
- * matches within one segment (org.acme/* matches every artifact of org.acme)
- ** matches across segments
*/

// Matcher holds compiled include and exclude patterns. The zero value
// matches everything.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles the patterns. Patterns using wildcards other than *
// and ** are dropped with a warning.
func NewMatcher(include, exclude []string, logger zerolog.Logger) *Matcher {
	return &Matcher{
		include: compile(include, logger),
		exclude: compile(exclude, logger),
	}
}

func compile(patterns []string, logger zerolog.Logger) []glob.Glob {
	var out []glob.Glob
	for _, pattern := range patterns {
		normalized := strings.TrimPrefix(pattern, "/")
		if containsUnsupportedWildcards(normalized) {
			logger.Warn().Str("pattern", pattern).Msg("Pattern contains unsupported wildcard characters, only * and ** are supported")
			continue
		}
		g, err := glob.Compile(normalized, '/')
		if err != nil {
			logger.Warn().Err(err).Str("pattern", pattern).Msg("Skipping invalid pattern")
			continue
		}
		out = append(out, g)
	}
	return out
}

// Match applies include patterns first, then exclude patterns.
func (m *Matcher) Match(group, name string) bool {
	if m == nil {
		return true
	}
	subject := ComponentPath(group, name)
	if len(m.include) > 0 && !anyMatch(m.include, subject) {
		return false
	}
	return !anyMatch(m.exclude, subject)
}

func anyMatch(globs []glob.Glob, subject string) bool {
	for _, g := range globs {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

// ComponentPath is the string patterns are matched against.
func ComponentPath(group, name string) string {
	if group == "" {
		return name
	}
	return group + "/" + name
}

// containsUnsupportedWildcards checks if pattern contains unsupported wildcard characters
// Only * and ** are supported. Characters like ?, [, ], {, } are not supported.
func containsUnsupportedWildcards(pattern string) bool {
	return strings.ContainsAny(pattern, "?[]{}")
}
