package jurisdictions

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSeeds reads extra jurisdiction seeds from a JSON file holding a list of
// objects. Deployments use this to add portal instances without rebuilding.
func LoadSeeds(path string) ([]Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jurisdictions file: %w", err)
	}

	var seeds []Seed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse jurisdictions file %q: %w", path, err)
	}

	return seeds, nil
}
