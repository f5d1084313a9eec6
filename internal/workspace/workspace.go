// Package workspace prepares the on-disk directory tree the trainer and the
// dispatcher rely on.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dirs is the tree the install step creates. The trainer assumes these exist
// and does not create them itself.
var Dirs = []string{
	"saves",
	filepath.Join("saves", "models"),
	filepath.Join("saves", "tmp"),
	filepath.Join("downloads", "libsource"),
	filepath.Join("downloads", "libsourcev2"),
	filepath.Join("downloads", "offline_saves"),
}

// Setup creates the workspace directory tree rooted at root. It is idempotent.
func Setup(root string) error {
	for _, dir := range Dirs {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		slog.Debug("ensured directory", "path", path)
	}
	return nil
}
