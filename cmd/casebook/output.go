package main

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

type outputFormat struct {
	json bool
	yaml bool
}

// structured reports whether v was printed as JSON or YAML.
func (f outputFormat) structured(v any) bool {
	switch {
	case f.json:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			fatal("Error encoding JSON", err)
		}
	case f.yaml:
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			fatal("Error encoding YAML", err)
		}
		_ = encoder.Close()
	default:
		return false
	}
	return true
}
