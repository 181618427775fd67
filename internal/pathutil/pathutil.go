package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's
// separator and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns the path to target relative to the provided vault
// directory. The returned path always uses forward slashes to simplify
// downstream processing and ensure platform agnosticism.
func VaultRelative(vaultDir, target string) (string, error) {
	base := NormalizePath(vaultDir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// FolderOf returns the vault-relative folder containing target, with forward
// slashes and no trailing separator. The vault root itself is "".
func FolderOf(vaultDir, target string) string {
	rel, err := VaultRelative(vaultDir, target)
	if err != nil {
		return ""
	}

	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.Trim(dir, "/")
}

// WithinFolder reports whether folder equals query or sits beneath it. The
// prefix comparison respects path segment boundaries, so "notes/daily" is
// within "notes" but "notebook" is not.
func WithinFolder(folder, query string) bool {
	folder = strings.Trim(filepath.ToSlash(folder), "/")
	query = strings.Trim(filepath.ToSlash(query), "/")

	if query == "" {
		return true
	}
	if folder == query {
		return true
	}
	return strings.HasPrefix(folder, query+"/")
}
