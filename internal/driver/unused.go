package driver

import (
	"os"
	"path/filepath"
	"sort"
)

// UnusedInputs lists regular files directly under inputDir that no ready item
// reads. Inputs of outputs that already exist count as unused.
func UnusedInputs(inputDir string, items []Item) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	used := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Err != nil || !item.Request.Ready || item.Request.InputPath == "" {
			continue
		}
		used[cleanAbs(item.Request.InputPath)] = struct{}{}
	}

	var unused []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := cleanAbs(filepath.Join(inputDir, entry.Name()))
		if _, ok := used[path]; ok {
			continue
		}
		unused = append(unused, path)
	}
	sort.Strings(unused)
	return unused, nil
}

func cleanAbs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
