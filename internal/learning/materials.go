// Package learning serves the read-only learning materials catalogue shown
// to new joiners. The catalogue is a JSON document loaded at startup and
// injected where needed, never mutated at runtime.
package learning

import (
	"encoding/json"
	"fmt"
	"os"
)

// MaterialRow is one topic inside a learning module
type MaterialRow struct {
	Module   string  `json:"module"`
	Topics   string  `json:"topics"`
	Duration float64 `json:"duration,omitempty"`
	Type     string  `json:"type,omitempty"`
	Link     string  `json:"link,omitempty"`
}

// Material is one learning catalogue (a course outline with its topics)
type Material struct {
	FileName string        `json:"file_name"`
	Level    string        `json:"level"`
	RowCount int           `json:"row_count"`
	Rows     []MaterialRow `json:"rows"`
}

// LoadMaterials reads the learning materials catalogue from a JSON file
func LoadMaterials(path string) ([]Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read learning materials file: %w", err)
	}

	var materials []Material
	if err := json.Unmarshal(data, &materials); err != nil {
		return nil, fmt.Errorf("failed to parse learning materials file: %w", err)
	}

	for i := range materials {
		if materials[i].FileName == "" {
			return nil, fmt.Errorf("learning material %d is missing a file name", i)
		}
		// The row count is derived, not trusted from the document
		materials[i].RowCount = len(materials[i].Rows)
	}

	return materials, nil
}
