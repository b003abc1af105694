package provider

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mmilab/mmi/internal/domain/model"
)

// LoadPitchFile reads pitch records from a JSON file holding an array
// of objects in the PitchRecord schema. Useful for scoring archived
// games without hitting the feed.
func LoadPitchFile(path string) ([]model.PitchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	var pitches []model.PitchRecord
	if err := json.Unmarshal(data, &pitches); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	for i := range pitches {
		if err := pitches[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: pitch %d: %w", ErrLoad, i, err)
		}
	}
	return pitches, nil
}
