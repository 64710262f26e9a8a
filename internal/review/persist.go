package review

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

// Save writes the ledger's record to a JSON file.
func Save(l *Ledger, path string) error {
	data, err := json.MarshalIndent(l.Record(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding review record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing review record: %w", err)
	}
	return nil
}

// LoadRecord reads a previously saved review record.
func LoadRecord(path string) (models.ReviewRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ReviewRecord{}, fmt.Errorf("reading review record: %w", err)
	}
	var rec models.ReviewRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.ReviewRecord{}, fmt.Errorf("decoding review record: %w", err)
	}
	return rec, nil
}

// Restore applies a saved record's decisions onto a fresh ledger for the
// same fixes. Decisions for unknown fix ids are ignored.
func Restore(l *Ledger, rec models.ReviewRecord) {
	for id, d := range rec.Decisions {
		if _, ok := l.decisions[id]; ok {
			l.decisions[id] = d
		}
	}
	for _, c := range rec.Comments {
		if _, ok := l.decisions[c.FixID]; ok {
			l.comments = append(l.comments, c)
		}
	}
}
