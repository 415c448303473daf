package clientview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrImportFormat = errors.New("JSON must be an array of records or an object with an 'items' array")
	ErrEmptyImport  = errors.New("no records found in the import file")
)

// ParseImport accepts a JSON array of records, or an object whose
// "items" field is such an array. Rows are passed through unvalidated;
// the server skips rows it cannot use.
func ParseImport(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrImportFormat
	}

	switch trimmed[0] {
	case '[':
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		return nonEmpty(rows)

	case '{':
		var wrapper struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		items := bytes.TrimSpace(wrapper.Items)
		if len(items) == 0 || items[0] != '[' {
			return nil, ErrImportFormat
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(items, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		return nonEmpty(rows)
	}

	return nil, ErrImportFormat
}

func nonEmpty(rows []json.RawMessage) ([]json.RawMessage, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	return rows, nil
}
