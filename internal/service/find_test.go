package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/myfind/internal/adapter/aferofs"
	"github.com/Ning0612/myfind/internal/config"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/testutil"
)

func memFS(t *testing.T) *aferofs.Adapter {
	t.Helper()

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/srv/logs", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/srv/logs/app.log", []byte("log line\n"), 0o640))
	require.NoError(t, afero.WriteFile(mem, "/srv/readme.txt", []byte("hello"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/srv/notes.txt", []byte("notes"), 0o644))

	return aferofs.New(mem, aferofs.Options{
		UID:    1000,
		GID:    100,
		Users:  map[uint32]string{1000: "alice"},
		Groups: map[uint32]string{100: "staff"},
	})
}

func newService(t *testing.T, cfg *config.Config, opts Options) (*FindService, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	opts.Out = out
	svc, err := NewFindService(cfg, opts)
	require.NoError(t, err)
	return svc, out
}

func lines(out *bytes.Buffer) []string {
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestNewFindService_Validation(t *testing.T) {
	_, err := NewFindService(nil, Options{Out: &bytes.Buffer{}})
	assert.Error(t, err)

	_, err = NewFindService(config.Default(), Options{})
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Walk.OnStatError = "ignore"
	_, err = NewFindService(cfg, Options{Out: &bytes.Buffer{}})
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestRun_PlainOutput(t *testing.T) {
	svc, out := newService(t, config.Default(), Options{FS: memFS(t)})

	task := domain.Task{
		Predicates:  []domain.Predicate{domain.NamePredicate{Pattern: "*.txt"}},
		RepeatCount: 1,
	}
	summary, err := svc.Run(context.Background(), []string{"/srv"}, task)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Equal(t, "/srv/notes.txt"+strings.Repeat(" ", 40-len("/srv/notes.txt"))+" ", got[0])
	assert.Equal(t, 5, summary.Visited)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 2, summary.Lines)
}

func TestRun_NameWidthFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Output.NameWidth = 4

	svc, out := newService(t, cfg, Options{FS: memFS(t)})
	task := domain.Task{Predicates: []domain.Predicate{domain.TypePredicate{Types: []domain.FileType{domain.FileTypeDirectory}}}}

	_, err := svc.Run(context.Background(), []string{"/srv"}, task)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv ", "/srv/logs "}, lines(out))
}

func TestRun_DetailedListing(t *testing.T) {
	svc, out := newService(t, config.Default(), Options{FS: memFS(t)})

	task := domain.Task{
		Predicates:  []domain.Predicate{domain.NamePredicate{Pattern: "app.log"}, domain.ListDirective{}, domain.ListDirective{}},
		RepeatCount: 2,
	}
	summary, err := svc.Run(context.Background(), []string{"/srv"}, task)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
	assert.Contains(t, got[0], "-rw-r-----")
	assert.Contains(t, got[0], "alice")
	assert.Contains(t, got[0], "staff")
	assert.True(t, strings.HasSuffix(got[0], " /srv/logs/app.log"))
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 2, summary.Lines)
}

func TestRun_OwnerAndMTime(t *testing.T) {
	now := time.Now().Add(80 * time.Hour)
	svc, out := newService(t, config.Default(), Options{FS: memFS(t), Now: func() time.Time { return now }})

	task := domain.Task{
		Predicates: []domain.Predicate{
			domain.OwnerPredicate{Text: "al*"},
			domain.MTimePredicate{Days: 2, Cmp: domain.CompareMore},
			domain.TypePredicate{Types: []domain.FileType{domain.FileTypeRegular}},
		},
	}
	_, err := svc.Run(context.Background(), []string{"/srv"}, task)
	require.NoError(t, err)
	assert.Len(t, lines(out), 3)
}

func TestRun_MissingRoot(t *testing.T) {
	svc, out := newService(t, config.Default(), Options{FS: memFS(t)})

	_, err := svc.Run(context.Background(), []string{"/srv", "/absent"}, domain.Task{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "'/absent'")
	assert.Empty(t, out.String(), "nothing may be printed before roots resolve")
}

func TestRun_MaxDepth(t *testing.T) {
	svc, out := newService(t, config.Default(), Options{FS: memFS(t)})

	summary, err := svc.Run(context.Background(), []string{"/srv"}, domain.Task{MaxDepth: 1})
	require.NoError(t, err)
	assert.Len(t, lines(out), 4)
	assert.Equal(t, 1, summary.MaxDepth)
}

func TestRun_LocalTree(t *testing.T) {
	tree := testutil.NewTree(t)
	tree.File("src/main.go", "package main\n")
	tree.File("src/util/strings.go", "package util\n")
	tree.File("README.md", "# readme\n")

	svc, out := newService(t, config.Default(), Options{})

	task := domain.Task{Predicates: []domain.Predicate{domain.NamePredicate{Pattern: "*.go"}}}
	summary, err := svc.Run(context.Background(), []string{tree.Root}, task)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	for _, line := range got {
		assert.True(t, strings.HasPrefix(line, tree.Root+"/src/"), line)
	}
	assert.Equal(t, 6, summary.Visited)
}

func TestRun_PermissionDeniedIsNotFatal(t *testing.T) {
	testutil.SkipIfRoot(t)

	tree := testutil.NewTree(t)
	tree.File("open/a.txt", "a")
	tree.File("closed/b.txt", "b")
	tree.Chmod("closed", 0o000)

	svc, out := newService(t, config.Default(), Options{})

	summary, err := svc.Run(context.Background(), []string{tree.Root}, domain.Task{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "myfind: '"+tree.Path("closed")+"': Permission denied\n")
	assert.Contains(t, out.String(), tree.Path("open/a.txt"))
	assert.Equal(t, 1, summary.DirsSkipped)
}

func TestDiagnostics(t *testing.T) {
	buf := &bytes.Buffer{}
	NewDiagnostics(buf, false).Printf("myfind: '%s': Permission denied", "/x")
	assert.Equal(t, "myfind: '/x': Permission denied\n", buf.String())

	buf.Reset()
	NewDiagnostics(buf, true).Printf("myfind: %s", "warn")
	assert.Contains(t, buf.String(), "\x1b[33m")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
