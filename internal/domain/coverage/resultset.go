// Package coverage correlates changed lines with per-line hit counts.
package coverage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/speccloak/speccloak/internal/domain"
)

type section struct {
	Coverage map[string]json.RawMessage `json:"coverage"`
}

// ExtractTable parses a resultset document and returns the coverage table of
// the first section in sections that holds one. An empty table is returned
// when none does. Unparseable input yields an error wrapping
// domain.ErrMalformedReport.
func ExtractTable(raw []byte, sections []string) (domain.CoverageTable, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedReport, err)
	}

	for _, name := range sections {
		rawSection, ok := doc[name]
		if !ok || isNull(rawSection) {
			continue
		}

		var sec section
		if err := json.Unmarshal(rawSection, &sec); err != nil {
			return nil, fmt.Errorf("%w: section %q: %v", domain.ErrMalformedReport, name, err)
		}
		if sec.Coverage == nil {
			continue
		}

		table := make(domain.CoverageTable, len(sec.Coverage))
		for path, rawFile := range sec.Coverage {
			fc, err := decodeFile(rawFile)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedReport, path, err)
			}
			table[path] = fc
		}
		return table, nil
	}

	return domain.CoverageTable{}, nil
}

// decodeFile accepts both {"lines": [...]} records and the legacy bare array.
func decodeFile(raw json.RawMessage) (domain.FileCoverage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var lines []domain.HitEntry
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return domain.FileCoverage{}, err
		}
		return domain.FileCoverage{Lines: lines}, nil
	}

	var fc domain.FileCoverage
	if err := json.Unmarshal(trimmed, &fc); err != nil {
		return domain.FileCoverage{}, err
	}
	return fc, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
