// Package diff extracts changed line numbers from unified diff text.
package diff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/speccloak/speccloak/internal/domain"
)

const hunkMarker = "@@"

// hunkHeader captures the new-file start and optional count of a hunk header.
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))?`)

// Hunk is the new-file range of one diff hunk.
type Hunk struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// Lines expands the hunk into its line numbers.
func (h Hunk) Lines() []int {
	lines := make([]int, 0, h.Count)
	for n := h.Start; n < h.Start+h.Count; n++ {
		lines = append(lines, n)
	}
	return lines
}

// ParseHunks returns the new-file ranges of all well-formed hunk headers in order.
// Lines that start with @@ but do not match the header format are skipped.
// Content lines of any length are tolerated.
func ParseHunks(diffText string) []Hunk {
	var hunks []Hunk
	for _, line := range strings.Split(diffText, "\n") {
		if !strings.HasPrefix(line, hunkMarker) {
			continue
		}
		h, ok := parseHeader(line)
		if !ok {
			continue
		}
		hunks = append(hunks, h)
	}
	return hunks
}

// ParseChangedLines returns every changed line number in hunk order.
// A missing count means a single-line hunk; a zero count contributes nothing.
func ParseChangedLines(diffText string) domain.ChangedLineSet {
	var lines domain.ChangedLineSet
	for _, h := range ParseHunks(diffText) {
		lines = append(lines, h.Lines()...)
	}
	return lines
}

func parseHeader(line string) (Hunk, bool) {
	m := hunkHeader.FindStringSubmatch(line)
	if m == nil {
		return Hunk{}, false
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Hunk{}, false
	}
	count := 1
	if m[2] != "" {
		count, err = strconv.Atoi(m[2])
		if err != nil {
			return Hunk{}, false
		}
	}
	return Hunk{Start: start, Count: count}, true
}
