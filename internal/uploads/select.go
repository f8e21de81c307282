package uploads

import (
	"path/filepath"
)

// Candidate is a file path gathered for selection.
// Present is set when a hinted path exists on disk, or when a directory entry is a regular file.
type Candidate struct {
	Path    string
	Present bool
}

// Select returns the first candidate accepted by the two-phase strategy:
// hints located directly in dir win in list order, entries are consulted only when no hint matches.
func Select(dir string, hints, entries []Candidate, match Predicate) (string, bool) {
	if path, ok := first(priority(dir, hints, match)); ok {
		return path, true
	}
	return first(fallback(entries, match))
}

// Candidates returns every acceptable path in selection order, without duplicates.
// Its first element is always the result of Select.
func Candidates(dir string, hints, entries []Candidate, match Predicate) []string {
	ordered := append(priority(dir, hints, match), fallback(entries, match)...)

	seen := make(map[string]struct{}, len(ordered))
	result := make([]string, 0, len(ordered))
	for _, path := range ordered {
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, path)
	}

	return result
}

func priority(dir string, hints []Candidate, match Predicate) []string {
	dir = filepath.Clean(dir)

	matched := make([]string, 0)
	for _, hint := range hints {
		if filepath.Dir(filepath.Clean(hint.Path)) != dir {
			continue
		}
		if !match(hint.Path) || !hint.Present {
			continue
		}
		matched = append(matched, hint.Path)
	}

	return matched
}

func fallback(entries []Candidate, match Predicate) []string {
	matched := make([]string, 0)
	for _, entry := range entries {
		if entry.Present && match(entry.Path) {
			matched = append(matched, entry.Path)
		}
	}

	return matched
}

func first(paths []string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}
