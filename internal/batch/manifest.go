package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest summarizes a batch run for downstream tooling.
type Manifest struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Warned    int      `json:"warned"` // files decoded with at least one warning
	Files     []Result `json:"files"`
}

// Summarize counts outcomes across results.
func Summarize(results []Result) Manifest {
	m := Manifest{Total: len(results), Files: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
		if len(r.Warnings) > 0 {
			m.Warned++
		}
	}
	return m
}

// WriteManifest writes manifest.json for results to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
