package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// loadDotenv reads a simple KEY=VALUE .env file from path. A missing file
// is not an error: it just yields an empty map, matching the original
// implementation's load_dotenv behavior of silently doing nothing when
// there's no .env to load.
func loadDotenv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, &runtimeError{kind: errDotenv, err: errors.Wrapf(err, "os.ReadFile %s", path)}
	}

	vars := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if key != "" {
			vars[key] = value
		}
	}
	return vars, nil
}
