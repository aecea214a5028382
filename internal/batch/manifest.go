package batch

import (
	"encoding/json"
	"os"

	"md3-renderer/internal/animation"
)

// ManifestEntry represents one rendered animation in the output manifest.
type ManifestEntry struct {
	animation.Descriptor
	Animation string   `json:"animation"`
	Category  string   `json:"category"`
	Images    []string `json:"images"`
	Error     string   `json:"error,omitempty"`
}

// WriteManifest writes the manifest of a batch run to path.
func WriteManifest(path string, tb animation.Table, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Animation:  r.Animation.String(),
			Category:   r.Animation.Category().String(),
			Descriptor: tb.Get(r.Animation),
			Images:     r.Images,
			Error:      r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
