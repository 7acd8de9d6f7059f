package format

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/Ning0612/myfind/internal/domain"
)

// DefaultNameWidth is the field width of the name in plain output
const DefaultNameWidth = 40

// timeLayout renders month, day and hour:minute
const timeLayout = "Jan _2 15:04"

// Resolver provides the lookups detailed output needs
type Resolver interface {
	ReadLink(ctx context.Context, path string) (string, error)
	LookupUser(uid uint32) (string, error)
	LookupGroup(gid uint32) (string, error)
}

// Formatter writes output lines for matched entries
type Formatter struct {
	w         io.Writer
	resolver  Resolver
	nameWidth int

	detailed bool
	print    bool
	repeat   int
}

// Options configures a Formatter
type Options struct {
	// NameWidth is the plain-mode field width; 0 selects DefaultNameWidth
	NameWidth int
}

// New creates a formatter for task, writing to w
func New(w io.Writer, resolver Resolver, task *domain.Task, opts Options) *Formatter {
	width := opts.NameWidth
	if width <= 0 {
		width = DefaultNameWidth
	}

	return &Formatter{
		w:         w,
		resolver:  resolver,
		nameWidth: width,
		detailed:  task.Listing(),
		print:     task.Printing(),
		repeat:    task.Repeat(),
	}
}

// Write emits every line due for one matched entry: the detailed line
// repeated once per -ls, then a plain line when plain output applies.
// It returns the number of lines written.
func (f *Formatter) Write(ctx context.Context, entry domain.Entry) (int, error) {
	lines := 0

	if f.detailed {
		line, err := f.Detailed(ctx, entry)
		if err != nil {
			return lines, err
		}
		for i := 0; i < f.repeat; i++ {
			if _, err := io.WriteString(f.w, line+"\n"); err != nil {
				return lines, err
			}
			lines++
		}
	}

	if !f.detailed || f.print {
		if _, err := io.WriteString(f.w, f.Plain(entry)+"\n"); err != nil {
			return lines, err
		}
		lines++
	}

	return lines, nil
}

// Plain renders the name left-justified with a trailing space
func (f *Formatter) Plain(entry domain.Entry) string {
	return fmt.Sprintf("%-*s ", f.nameWidth, entry.Path)
}

// Detailed renders an ls -dils style line
func (f *Formatter) Detailed(ctx context.Context, entry domain.Entry) (string, error) {
	m := entry.Meta

	line := fmt.Sprintf("%9d %6d %s %3d %-8s %-8s %8d %s %s",
		m.Inode,
		m.Blocks/2,
		Permissions(m.Mode),
		m.Nlink,
		f.owner(m.UID),
		f.group(m.GID),
		m.Size,
		m.ModTime.Format(timeLayout),
		entry.Path,
	)

	if m.IsSymlink() {
		target, err := f.resolver.ReadLink(ctx, entry.Path)
		if err != nil {
			return "", fmt.Errorf("readlink %s: %w", entry.Path, err)
		}
		line += " -> " + truncate(target, m.Size)
	}

	return line, nil
}

func (f *Formatter) owner(uid uint32) string {
	if name, err := f.resolver.LookupUser(uid); err == nil {
		return name
	}
	return strconv.FormatUint(uint64(uid), 10)
}

func (f *Formatter) group(gid uint32) string {
	if name, err := f.resolver.LookupGroup(gid); err == nil {
		return name
	}
	return strconv.FormatUint(uint64(gid), 10)
}

// Permissions renders the type letter followed by rwxrwxrwx.
// Only directories get a type letter other than '-'.
func Permissions(mode fs.FileMode) string {
	const rwx = "rwxrwxrwx"

	buf := []byte("----------")
	if mode.IsDir() {
		buf[0] = 'd'
	}
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			buf[i+1] = rwx[i]
		}
	}
	return string(buf)
}

// truncate cuts target to the link's reported size
func truncate(target string, size int64) string {
	if size >= 0 && int64(len(target)) > size {
		return target[:size]
	}
	return target
}
