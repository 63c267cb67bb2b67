package roster

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a party list from a JSON file: a bare array of parties.
// A missing file is not an error; the booth then runs in walk-up mode.
func LoadFile(path string) ([]Party, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	var parties []Party
	if err := json.Unmarshal(data, &parties); err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}
	return parties, nil
}
