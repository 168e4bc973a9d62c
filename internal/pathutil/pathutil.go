package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultStateDir = "~/.mrok"

// ExpandHomePath resolves a leading "~" against the current user's home
// directory. Paths that cannot be expanded are returned unchanged.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func ResolveStateDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultStateDir
	}
	return ExpandHomePath(dir)
}

func ResolveStateFile(dir, name string) string {
	return filepath.Join(ResolveStateDir(dir), strings.TrimSpace(name))
}
