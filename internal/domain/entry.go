package domain

import (
	"io/fs"
	"time"
)

// FileType represents the type of a filesystem entry
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeSymlink
	FileTypeOther
)

// String returns the single-letter code used by -type
func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "f"
	case FileTypeDirectory:
		return "d"
	case FileTypeSymlink:
		return "l"
	default:
		return "?"
	}
}

// FileTypeFromMode derives the FileType from an fs.FileMode
func FileTypeFromMode(mode fs.FileMode) FileType {
	switch {
	case mode.IsRegular():
		return FileTypeRegular
	case mode.IsDir():
		return FileTypeDirectory
	case mode&fs.ModeSymlink != 0:
		return FileTypeSymlink
	default:
		return FileTypeOther
	}
}

// Metadata is a snapshot of an entry's stat information.
// A fresh value is taken for every visited entry.
type Metadata struct {
	// Dev is the device the entry lives on (used for loop detection)
	Dev uint64

	// Inode number
	Inode uint64

	// Mode holds the type and permission bits
	Mode fs.FileMode

	// Nlink is the hard link count
	Nlink uint64

	UID uint32
	GID uint32

	// Size in bytes; for symlinks, the length of the target path
	Size int64

	// Blocks is the number of 512-byte blocks allocated
	Blocks int64

	// ModTime is the last modification time
	ModTime time.Time
}

// Type returns the entry type encoded in Mode
func (m Metadata) Type() FileType {
	return FileTypeFromMode(m.Mode)
}

// IsDir returns true if this is a directory
func (m Metadata) IsDir() bool {
	return m.Mode.IsDir()
}

// IsSymlink returns true if this is a symbolic link
func (m Metadata) IsSymlink() bool {
	return m.Mode&fs.ModeSymlink != 0
}

// Entry is one visited filesystem entry
type Entry struct {
	// Path is the display path, built from the root argument
	Path string

	// Name is the base filename used by -name
	Name string

	// Depth is 0 for roots and increases by one per descent
	Depth int

	Meta Metadata
}
