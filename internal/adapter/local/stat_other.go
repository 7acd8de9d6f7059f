//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package local

import (
	"os"

	"github.com/Ning0612/myfind/internal/domain"
)

// statPath falls back to os.Stat/os.Lstat where raw stat(2) is unavailable.
// Inode, link count, ownership and block counts are reported as zero.
func statPath(path string, follow bool) (domain.Metadata, error) {
	var (
		info os.FileInfo
		err  error
	)
	if follow {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	if err != nil {
		return domain.Metadata{}, err
	}

	return domain.Metadata{
		Mode:    info.Mode(),
		Nlink:   1,
		Size:    info.Size(),
		Blocks:  (info.Size() + 511) / 512,
		ModTime: info.ModTime(),
	}, nil
}
