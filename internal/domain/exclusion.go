package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ExcludeEnvVar overrides the default exclusion patterns with a comma-separated list.
const ExcludeEnvVar = "SPECLOAK_EXCLUDE"

// DefaultExcludedPatterns covers paths that are not subject to coverage enforcement.
var DefaultExcludedPatterns = []string{
	".bundle/",
	"/lib/tasks",
	"db/schema.rb",
	"db/migrate",
	"config/routes.rb",
	"config/initializers",
	"db/seeds.rb",
	"spec",
}

// ExclusionPatternSet is a compiled, immutable set of path patterns.
type ExclusionPatternSet struct {
	patterns []*regexp.Regexp
}

// NewExclusionPatternSet builds the effective set: the env override when it is
// set (else the defaults) followed by the configured extra patterns.
func NewExclusionPatternSet(lookupEnv func(string) (string, bool), extra []string) (*ExclusionPatternSet, error) {
	base := DefaultExcludedPatterns
	if lookupEnv != nil {
		if v, ok := lookupEnv(ExcludeEnvVar); ok && strings.TrimSpace(v) != "" {
			base = splitPatterns(v)
		}
	}

	all := make([]string, 0, len(base)+len(extra))
	all = append(all, base...)
	all = append(all, extra...)

	set := &ExclusionPatternSet{}
	for _, p := range all {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}
		set.patterns = append(set.patterns, re)
	}
	return set, nil
}

// Patterns returns the source text of each pattern.
func (s *ExclusionPatternSet) Patterns() []string {
	out := make([]string, len(s.patterns))
	for i, re := range s.patterns {
		out[i] = re.String()
	}
	return out
}

// Excluded reports whether any pattern matches path.
func (s *ExclusionPatternSet) Excluded(path string) bool {
	for _, re := range s.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Filter returns the paths not matched by any pattern, preserving order.
func (s *ExclusionPatternSet) Filter(paths []string) []string {
	var kept []string
	for _, p := range paths {
		if !s.Excluded(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func splitPatterns(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
