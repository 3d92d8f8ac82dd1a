package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFilename is the optional per-store CLI configuration file.
const ConfigFilename = "casebook.yaml"

// FindRoot looks upwards from startDir for a store root: a directory holding
// a .casebook directory, a casebook.yaml file or a casebook.db database.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".casebook") || hasFile(dir, ConfigFilename) || hasFile(dir, "casebook.db") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("store root not found from %s", startDir)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
