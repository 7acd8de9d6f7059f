package adapter

import (
	"context"

	"github.com/Ning0612/myfind/internal/domain"
)

// FS defines the filesystem collaborator consumed by the walker.
// All implementations return domain-level errors for consistent handling.
type FS interface {
	// OpenDir opens a directory for lazy enumeration in directory-read order
	// Returns domain.ErrPermissionDenied if the directory cannot be read
	// Returns domain.ErrNotFound if path doesn't exist
	// Caller must Close the returned reader
	OpenDir(ctx context.Context, path string) (DirReader, error)

	// Stat returns metadata for a single path
	// When follow is true, symbolic links are resolved to their target
	// Returns domain.ErrNotFound if path doesn't exist
	Stat(ctx context.Context, path string, follow bool) (domain.Metadata, error)

	// ReadLink returns the target of a symbolic link
	// Returns domain.ErrNotSymlink if path is not a link
	ReadLink(ctx context.Context, path string) (string, error)

	// LookupUser resolves a uid to a login name
	LookupUser(uid uint32) (string, error)

	// LookupGroup resolves a gid to a group name
	LookupGroup(gid uint32) (string, error)
}

// DirEntry is one name produced by a DirReader
type DirEntry struct {
	Name string

	// TypeHint is the entry type as reported by the directory listing.
	// It may be FileTypeOther when the backend does not know.
	TypeHint domain.FileType
}

// DirReader yields directory entries; it is finite and not restartable
type DirReader interface {
	// Next returns the next entry or io.EOF when the directory is exhausted
	Next() (DirEntry, error)

	// Close releases the directory handle
	Close() error
}
