package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/younsl/iamaudit/internal/models"
)

// EncodeJSON writes snap as indented JSON with full key IDs
func EncodeJSON(w io.Writer, snap models.FindingsSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("error encoding findings: %w", err)
	}
	return nil
}

// DecodeJSON reads a snapshot previously written by EncodeJSON
func DecodeJSON(r io.Reader) (models.FindingsSnapshot, error) {
	var snap models.FindingsSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return models.FindingsSnapshot{}, fmt.Errorf("error decoding findings: %w", err)
	}
	return snap, nil
}
