package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/speccloak/speccloak/internal/domain"
)

const historyFile = ".speccloak/history/runs.json"

// FileHistory implements domain.RunHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Save appends entry to the project's run history.
func (h *FileHistory) Save(projectPath string, entry domain.RunEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

// Load returns all recorded runs, oldest first. A missing file is an empty history.
func (h *FileHistory) Load(projectPath string) ([]domain.RunEntry, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return entries, nil
}
