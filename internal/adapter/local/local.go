package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"strconv"
	"sync"
	"syscall"

	"github.com/Ning0612/myfind/internal/adapter"
	"github.com/Ning0612/myfind/internal/domain"
)

// readDirBatchSize bounds how many entries are pulled per ReadDir call
const readDirBatchSize = 256

// Adapter implements the adapter.FS interface for the local filesystem
type Adapter struct {
	mu     sync.Mutex
	users  map[uint32]string
	groups map[uint32]string
}

var _ adapter.FS = (*Adapter)(nil)

// New creates a new local filesystem adapter
func New() *Adapter {
	return &Adapter{
		users:  make(map[uint32]string),
		groups: make(map[uint32]string),
	}
}

// OpenDir opens a directory for lazy enumeration
func (a *Adapter) OpenDir(ctx context.Context, path string) (adapter.DirReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mapError(err)
	}

	return &dirReader{f: f}, nil
}

// Stat returns metadata for path, resolving symlinks when follow is true
func (a *Adapter) Stat(ctx context.Context, path string, follow bool) (domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.Metadata{}, err
	}

	meta, err := statPath(path, follow)
	if err != nil {
		return domain.Metadata{}, mapError(err)
	}
	return meta, nil
}

// ReadLink returns the target of a symbolic link
func (a *Adapter) ReadLink(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target, err := os.Readlink(path)
	if err != nil {
		if errors.Is(err, syscall.EINVAL) {
			return "", domain.ErrNotSymlink
		}
		return "", mapError(err)
	}
	return target, nil
}

// LookupUser resolves a uid to a login name, caching the result
func (a *Adapter) LookupUser(uid uint32) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if name, ok := a.users[uid]; ok {
		return name, nil
	}

	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", err
	}
	a.users[uid] = u.Username
	return u.Username, nil
}

// LookupGroup resolves a gid to a group name, caching the result
func (a *Adapter) LookupGroup(gid uint32) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if name, ok := a.groups[gid]; ok {
		return name, nil
	}

	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", err
	}
	a.groups[gid] = g.Name
	return g.Name, nil
}

// dirReader hands out entries from os.File.ReadDir one batch at a time
type dirReader struct {
	f       *os.File
	pending []fs.DirEntry
	done    bool
}

func (r *dirReader) Next() (adapter.DirEntry, error) {
	for len(r.pending) == 0 {
		if r.done {
			return adapter.DirEntry{}, io.EOF
		}

		batch, err := r.f.ReadDir(readDirBatchSize)
		if err == io.EOF {
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

	de := r.pending[0]
	r.pending = r.pending[1:]

	return adapter.DirEntry{
		Name:     de.Name(),
		TypeHint: domain.FileTypeFromMode(de.Type()),
	}, nil
}

func (r *dirReader) Close() error {
	return r.f.Close()
}

// mapError converts OS errors to domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	}
	if errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %v", domain.ErrNotDirectory, err)
	}

	return err
}
