package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteJSON writes res to <outDir>/<runID>.json.
func WriteJSON(runID, outDir string, res *Result) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return "", err
	}
	return path, nil
}
