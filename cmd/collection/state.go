package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"vinyl-collection/internal/domains/record/model"
)

// undoState carries the single undo slot between invocations
type undoState struct {
	Pending *model.Fields `json:"pending"`
}

func loadUndoState(path string) (*model.Fields, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read undo state: %w", err)
	}
	var st undoState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse undo state %s: %w", path, err)
	}
	return st.Pending, nil
}

func saveUndoState(path string, pending *model.Fields) error {
	if pending == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clear undo state: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(undoState{Pending: pending}, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write undo state: %w", err)
	}
	return os.Rename(tmp, path)
}
