package artifact

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IssueKind classifies a corrupt artifact file.
type IssueKind string

const (
	// IssueTrailingBraces: the file ends with more '}' than it opened,
	// typically from two trainer processes appending to the same artifact.
	IssueTrailingBraces IssueKind = "trailing_braces"
	// IssueUnparseable: the file is not valid JSON for any other reason.
	IssueUnparseable IssueKind = "unparseable"
)

// Issue describes one corrupt artifact file found by Scan.
type Issue struct {
	Path string
	Kind IssueKind
}

// Scan walks dir and reports every non-quarantined .json file that fails to
// parse, classifying the trailing-brace corruption separately since it is
// mechanically repairable.
func Scan(dir string) ([]Issue, error) {
	var issues []Issue

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsArtifactFile(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if json.Valid(data) {
			return nil
		}

		kind := IssueUnparseable
		content := strings.TrimSpace(string(data))
		if strings.HasSuffix(content, "}") &&
			strings.Count(content, "}") > strings.Count(content, "{") {
			kind = IssueTrailingBraces
		}

		issues = append(issues, Issue{Path: path, Kind: kind})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	return issues, nil
}

// Quarantine renames a corrupt artifact to broken_<name> so later scans and
// consolidation ignore it. Returns the new path.
func Quarantine(path string) (string, error) {
	dir, name := filepath.Split(path)
	quarantined := filepath.Join(dir, BrokenPrefix+name)
	if err := os.Rename(path, quarantined); err != nil {
		return "", fmt.Errorf("quarantining %s: %w", path, err)
	}
	return quarantined, nil
}

// FixTrailingBraces repairs a trailing-brace issue in place, first backing the
// original up as broken_<name>. Trailing '}' characters are stripped until
// braces balance; the result must parse, otherwise the file is left untouched.
func FixTrailingBraces(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	content := strings.TrimSpace(string(data))
	fixed := content
	for strings.HasSuffix(fixed, "}") &&
		strings.Count(fixed, "}") > strings.Count(fixed, "{") {
		fixed = strings.TrimSuffix(fixed, "}")
		fixed = strings.TrimRight(fixed, " \t\r\n")
	}

	if !json.Valid([]byte(fixed)) {
		return fmt.Errorf("repairing %s: stripped content is still not valid JSON", path)
	}

	dir, name := filepath.Split(path)
	backup := filepath.Join(dir, BrokenPrefix+name)
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(fixed), 0644); err != nil {
		return fmt.Errorf("rewriting %s: %w", path, err)
	}
	return nil
}
