// Package aferofs adapts any afero.Fs to the adapter.FS interface.
//
// afero backends generally carry no inode, link count or ownership data, so
// those fields come from Options. It is mainly used with afero.NewMemMapFs
// to run the walker against an in-memory tree.
package aferofs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/afero"

	"github.com/Ning0612/myfind/internal/adapter"
	"github.com/Ning0612/myfind/internal/domain"
)

// Options describes the ownership reported for every entry
type Options struct {
	UID    uint32
	GID    uint32
	Users  map[uint32]string
	Groups map[uint32]string
}

// Adapter implements adapter.FS on top of an afero.Fs
type Adapter struct {
	fs   afero.Fs
	opts Options

	// inodes hands out stable synthetic inode numbers per path
	inodes map[string]uint64
}

var _ adapter.FS = (*Adapter)(nil)

// New wraps fs
func New(fs afero.Fs, opts Options) *Adapter {
	return &Adapter{
		fs:     fs,
		opts:   opts,
		inodes: make(map[string]uint64),
	}
}

// Fs returns the wrapped filesystem
func (a *Adapter) Fs() afero.Fs {
	return a.fs
}

// OpenDir opens a directory for lazy enumeration
func (a *Adapter) OpenDir(ctx context.Context, path string) (adapter.DirReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, mapError(err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDirectory, path)
	}

	f, err := a.fs.Open(path)
	if err != nil {
		return nil, mapError(err)
	}
	return &dirReader{f: f}, nil
}

// Stat returns metadata for path; follow is honoured when the backend
// supports lstat
func (a *Adapter) Stat(ctx context.Context, path string, follow bool) (domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.Metadata{}, err
	}

	var (
		info os.FileInfo
		err  error
	)
	if lst, ok := a.fs.(afero.Lstater); ok && !follow {
		info, _, err = lst.LstatIfPossible(path)
	} else {
		info, err = a.fs.Stat(path)
	}
	if err != nil {
		return domain.Metadata{}, mapError(err)
	}

	return a.metadata(path, info), nil
}

// ReadLink returns the target of a symbolic link
func (a *Adapter) ReadLink(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lr, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", domain.ErrNotSymlink
	}
	target, err := lr.ReadlinkIfPossible(path)
	if err != nil {
		if errors.Is(err, afero.ErrNoReadlink) {
			return "", domain.ErrNotSymlink
		}
		return "", mapError(err)
	}
	return target, nil
}

// LookupUser resolves uid from Options.Users
func (a *Adapter) LookupUser(uid uint32) (string, error) {
	if name, ok := a.opts.Users[uid]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown user id %s", strconv.FormatUint(uint64(uid), 10))
}

// LookupGroup resolves gid from Options.Groups
func (a *Adapter) LookupGroup(gid uint32) (string, error) {
	if name, ok := a.opts.Groups[gid]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown group id %s", strconv.FormatUint(uint64(gid), 10))
}

func (a *Adapter) metadata(path string, info os.FileInfo) domain.Metadata {
	ino, ok := a.inodes[path]
	if !ok {
		ino = uint64(len(a.inodes) + 1)
		a.inodes[path] = ino
	}

	nlink := uint64(1)
	if info.IsDir() {
		nlink = 2
	}

	return domain.Metadata{
		Inode:   ino,
		Mode:    info.Mode(),
		Nlink:   nlink,
		UID:     a.opts.UID,
		GID:     a.opts.GID,
		Size:    info.Size(),
		Blocks:  (info.Size() + 511) / 512,
		ModTime: info.ModTime(),
	}
}

// dirReader adapts afero.File.Readdir to one-at-a-time reads
type dirReader struct {
	f       afero.File
	pending []os.FileInfo
	done    bool
}

func (r *dirReader) Next() (adapter.DirEntry, error) {
	for len(r.pending) == 0 {
		if r.done {
			return adapter.DirEntry{}, io.EOF
		}

		batch, err := r.f.Readdir(64)
		if err == io.EOF || (err == nil && len(batch) == 0) {
			r.done = true
			continue
		}
		if err != nil {
			r.done = true
			if len(batch) == 0 {
				return adapter.DirEntry{}, mapError(err)
			}
		}
		r.pending = batch
	}

	info := r.pending[0]
	r.pending = r.pending[1:]

	return adapter.DirEntry{
		Name:     info.Name(),
		TypeHint: domain.FileTypeFromMode(info.Mode()),
	}, nil
}

func (r *dirReader) Close() error {
	return r.f.Close()
}

// mapError converts afero/OS errors to domain errors
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	default:
		return err
	}
}
