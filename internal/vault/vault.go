// Package vault reads markdown notes from disk and converts them into card
// snapshots. It is the only package that touches the filesystem on behalf of
// the card-set sources.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cardview/internal/pathutil"
)

// Vault walks and reads a single note directory. Card paths produced by the
// vault are always vault-relative with forward slashes.
type Vault struct {
	dir         string
	excludeDirs []string
	cache       *lruCache
}

// New constructs a vault rooted at dir. Directories named in excludeDirs are
// skipped during enumeration, as are dot-directories.
func New(dir string, excludeDirs []string) *Vault {
	return &Vault{
		dir:         pathutil.NormalizePath(dir),
		excludeDirs: append([]string(nil), excludeDirs...),
		cache:       newLRUCache(128),
	}
}

// Dir returns the vault root directory.
func (v *Vault) Dir() string {
	return v.dir
}

// ListMarkdownFiles enumerates every markdown note in the vault, sorted by
// vault-relative path.
func (v *Vault) ListMarkdownFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(
		v.dir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			name := filepath.Base(path)
			if info.IsDir() {
				if path != v.dir && (strings.HasPrefix(name, ".") || v.isExcluded(name)) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") || filepath.Ext(name) != ".md" {
				return nil
			}

			rel, relErr := pathutil.VaultRelative(v.dir, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, rel)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("vault: walking %s: %w", v.dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Subfolders enumerates every folder in the vault that can act as a card set.
// The vault root appears as an empty string and always sorts first.
func (v *Vault) Subfolders() ([]string, error) {
	folders := []string{""}

	err := filepath.Walk(
		v.dir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() || path == v.dir {
				return nil
			}

			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") || v.isExcluded(name) {
				return filepath.SkipDir
			}

			rel, relErr := pathutil.VaultRelative(v.dir, path)
			if relErr != nil {
				return relErr
			}
			folders = append(folders, rel)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("vault: walking %s: %w", v.dir, err)
	}

	sort.Strings(folders)
	return folders, nil
}

// Abs converts a vault-relative card path back into an absolute path.
func (v *Vault) Abs(rel string) string {
	return filepath.Join(v.dir, filepath.FromSlash(rel))
}

func (v *Vault) isExcluded(name string) bool {
	for _, excluded := range v.excludeDirs {
		if excluded != "" && strings.EqualFold(name, excluded) {
			return true
		}
	}
	return false
}
