package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores where the board view was focused so a relaunch can restore it.
//
// It lives inside the workspace directory and is best effort: callers tolerate missing or
// stale ids.
type TUIState struct {
	Version int `json:"version"`

	SelectedProjectID string `json:"selectedProjectId,omitempty"`
	FocusColumnID     string `json:"focusColumnId,omitempty"`
	FocusCardID       string `json:"focusCardId,omitempty"`

	// ShowDetail keeps the card detail pane open.
	ShowDetail bool `json:"showDetail,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.tuiStatePath(), bytes.NewReader(b))
}
