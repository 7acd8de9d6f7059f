package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Tree builds a directory tree under a temporary root
type Tree struct {
	t    *testing.T
	Root string
}

// NewTree creates an empty tree in t.TempDir()
func NewTree(t *testing.T) *Tree {
	t.Helper()
	return &Tree{t: t, Root: t.TempDir()}
}

// Path joins rel onto the tree root
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.Root, filepath.FromSlash(rel))
}

// Dir creates rel and any missing parents
func (tr *Tree) Dir(rel string) string {
	tr.t.Helper()

	path := tr.Path(rel)
	if err := os.MkdirAll(path, 0755); err != nil {
		tr.t.Fatalf("failed to create dir %s: %v", rel, err)
	}
	return path
}

// File creates rel with content, creating parent directories
func (tr *Tree) File(rel, content string) string {
	tr.t.Helper()

	path := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tr.t.Fatalf("failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tr.t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// Symlink creates rel pointing at target (stored verbatim)
func (tr *Tree) Symlink(target, rel string) string {
	tr.t.Helper()

	path := tr.Path(rel)
	if err := os.Symlink(target, path); err != nil {
		tr.t.Skipf("symlinks not supported: %v", err)
	}
	return path
}

// Chmod changes the permission bits of rel and restores 0755 on cleanup
// so t.TempDir can remove the tree
func (tr *Tree) Chmod(rel string, mode os.FileMode) {
	tr.t.Helper()

	path := tr.Path(rel)
	if err := os.Chmod(path, mode); err != nil {
		tr.t.Fatalf("failed to chmod %s: %v", rel, err)
	}
	tr.t.Cleanup(func() {
		os.Chmod(path, 0755)
	})
}

// Age sets the modification time of rel to now minus age
func (tr *Tree) Age(rel string, age time.Duration) {
	tr.t.Helper()

	mtime := time.Now().Add(-age)
	if err := os.Chtimes(tr.Path(rel), mtime, mtime); err != nil {
		tr.t.Fatalf("failed to set mtime of %s: %v", rel, err)
	}
}

// SkipIfRoot skips tests that rely on permission checks
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}
