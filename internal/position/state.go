package position

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"TrendSentinel/internal/model"
)

// LoadState reads the book state from a JSON file. Returns an empty state if
// the file doesn't exist.
func LoadState(filePath string) (*model.BookState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyState(), nil
		}
		return nil, err
	}
	var state model.BookState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Open == nil {
		state.Open = make(map[string]*model.Position)
	}
	if state.LastExitAt == nil {
		state.LastExitAt = make(map[string]time.Time)
	}
	return &state, nil
}

// SaveState writes the book state to a JSON file, creating the parent
// directory if needed.
func SaveState(filePath string, state *model.BookState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}

func emptyState() *model.BookState {
	return &model.BookState{
		Open:       make(map[string]*model.Position),
		LastExitAt: make(map[string]time.Time),
	}
}
