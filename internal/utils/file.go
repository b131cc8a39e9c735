package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileReader reads and unmarshals a YAML file into out.
func FileReader(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("file %s is empty", path)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal YAML from %s: %w", path, err)
	}
	return nil
}
