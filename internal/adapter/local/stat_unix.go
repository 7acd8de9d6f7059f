//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly

package local

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Ning0612/myfind/internal/domain"
)

// statPath issues stat(2) or lstat(2) and converts the raw result
func statPath(path string, follow bool) (domain.Metadata, error) {
	var st unix.Stat_t

	for {
		var err error
		if follow {
			err = unix.Stat(path, &st)
		} else {
			err = unix.Lstat(path, &st)
		}
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return domain.Metadata{}, &fs.PathError{Op: opName(follow), Path: path, Err: err}
		}
		break
	}

	sec, nsec := st.Mtim.Unix()

	return domain.Metadata{
		Dev:     uint64(st.Dev),
		Inode:   uint64(st.Ino),
		Mode:    fileModeFromUnix(uint32(st.Mode)),
		Nlink:   uint64(st.Nlink),
		UID:     st.Uid,
		GID:     st.Gid,
		Size:    st.Size,
		Blocks:  int64(st.Blocks),
		ModTime: time.Unix(sec, nsec),
	}, nil
}

func opName(follow bool) string {
	if follow {
		return "stat"
	}
	return "lstat"
}

// fileModeFromUnix maps st_mode bits onto fs.FileMode
func fileModeFromUnix(m uint32) fs.FileMode {
	mode := fs.FileMode(m & 0o777)

	switch m & unix.S_IFMT {
	case unix.S_IFBLK:
		mode |= fs.ModeDevice
	case unix.S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFDIR:
		mode |= fs.ModeDir
	case unix.S_IFIFO:
		mode |= fs.ModeNamedPipe
	case unix.S_IFLNK:
		mode |= fs.ModeSymlink
	case unix.S_IFSOCK:
		mode |= fs.ModeSocket
	}

	if m&unix.S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if m&unix.S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if m&unix.S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}
