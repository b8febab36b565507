package envfile

import (
	"bufio"
	"os"
	"strings"
)

// Read parses a .env style file into a map. A missing file yields an
// empty map, not an error: projects without one are the common case.
func Read(path string) (map[string]string, error) {
	vars := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vars, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if key != "" {
			vars[key] = value
		}
	}

	return vars, scanner.Err()
}

// Merge appends vars onto an environment slice. Keys already present in
// env win, so the file never overrides the operator's shell.
func Merge(env []string, vars map[string]string) []string {
	if len(vars) == 0 {
		return env
	}

	present := make(map[string]bool, len(env))
	for _, kv := range env {
		if idx := strings.Index(kv, "="); idx > 0 {
			present[kv[:idx]] = true
		}
	}

	out := env
	for key, value := range vars {
		if !present[key] {
			out = append(out, key+"="+value)
		}
	}
	return out
}
