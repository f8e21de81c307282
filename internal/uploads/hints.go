package uploads

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ReadHints parses a newline-delimited list of changed files.
// An empty path or a missing file yields no hints.
func ReadHints(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read changed files list %q: %w", path, err)
	}

	return ParseHints(string(data)), nil
}

// ParseHints returns every non-blank trimmed line.
func ParseHints(content string) []string {
	hints := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hints = append(hints, line)
	}
	return hints
}
