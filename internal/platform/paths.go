package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// Data file names, kept next to the application.
const (
	MappingFileName = "credentials-map.json"
	TypesFileName   = "credential-types.json"
)

// ResolveBaseDir returns the directory the data files live in.
// A non-empty override wins. A built binary keeps its data next to the
// executable; a binary produced by `go run` lives under the temp dir, in
// which case the working directory is used instead.
func ResolveBaseDir(override string) string {
	if strings.TrimSpace(override) != "" {
		return filepath.Clean(override)
	}

	if exe, err := os.Executable(); err == nil && !isTemporaryBuild(exe) {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// isTemporaryBuild reports whether exe was built into the temp dir by go run/test.
func isTemporaryBuild(exe string) bool {
	tmp := filepath.Clean(os.TempDir())
	rel, err := filepath.Rel(tmp, filepath.Clean(exe))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// MappingFilePath returns the mapping file path inside baseDir.
func MappingFilePath(baseDir string) string {
	return filepath.Join(baseDir, MappingFileName)
}

// TypesFilePath returns the type registry file path inside baseDir.
func TypesFilePath(baseDir string) string {
	return filepath.Join(baseDir, TypesFileName)
}
