package predicate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ning0612/myfind/internal/domain"
)

const secondsPerDay = 86400

// UserResolver resolves a uid to a login name
type UserResolver interface {
	LookupUser(uid uint32) (string, error)
}

// Set is the AND-combination of every test in a task.
// Tests are held per kind so evaluation follows a fixed order
// regardless of command line order.
type Set struct {
	name  *domain.NamePredicate
	owner *domain.OwnerPredicate
	mtime *domain.MTimePredicate
	typ   *domain.TypePredicate

	users UserResolver
	now   time.Time
}

// NewSet collects the tests of preds. now is the reference time for -mtime
// and is fixed for the whole run.
func NewSet(preds []domain.Predicate, users UserResolver, now time.Time) *Set {
	s := &Set{users: users, now: now}
	for _, p := range preds {
		switch v := p.(type) {
		case domain.NamePredicate:
			s.name = &v
		case domain.OwnerPredicate:
			s.owner = &v
		case domain.MTimePredicate:
			s.mtime = &v
		case domain.TypePredicate:
			s.typ = &v
		}
	}
	return s
}

// Match reports whether entry satisfies every test.
// Order: name, owner, mtime, type; the first failure stops evaluation.
func (s *Set) Match(entry domain.Entry) bool {
	if s.name != nil && !MatchName(s.name.Pattern, entry.Name) {
		return false
	}
	if s.owner != nil && !s.matchOwner(entry.Meta.UID) {
		return false
	}
	if s.mtime != nil && !MatchMTime(*s.mtime, entry.Meta.ModTime, s.now) {
		return false
	}
	if s.typ != nil && !MatchType(*s.typ, entry.Meta.Type()) {
		return false
	}
	return true
}

func (s *Set) matchOwner(uid uint32) bool {
	if s.owner.Numeric {
		return s.owner.UID == uid
	}

	login := strconv.FormatUint(uint64(uid), 10)
	if s.users != nil {
		if name, err := s.users.LookupUser(uid); err == nil {
			login = name
		}
	}
	return MatchName(s.owner.Text, login)
}

// MatchName glob-matches pattern against a base name.
// A leading period has no special meaning.
func MatchName(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}

// MatchMTime compares the age of mtime in fractional days
func MatchMTime(p domain.MTimePredicate, mtime, now time.Time) bool {
	age := now.Sub(mtime).Seconds() / secondsPerDay
	n := float64(p.Days)

	switch p.Cmp {
	case domain.CompareMore:
		return age >= n+1
	case domain.CompareLess:
		return age <= n
	default:
		return age >= n && age < n+1
	}
}

// MatchType reports whether t is one of the listed types
func MatchType(p domain.TypePredicate, t domain.FileType) bool {
	for _, want := range p.Types {
		if want == t {
			return true
		}
	}
	return false
}

// ParseName validates a -name pattern
func ParseName(arg string) (domain.NamePredicate, error) {
	if _, err := filepath.Match(arg, ""); err != nil {
		return domain.NamePredicate{}, fmt.Errorf("%w: bad pattern '%s' for -name", domain.ErrArgument, arg)
	}
	return domain.NamePredicate{Pattern: arg}, nil
}

// ParseOwner accepts a numeric uid or a login name pattern
func ParseOwner(arg string) (domain.OwnerPredicate, error) {
	if arg == "" {
		return domain.OwnerPredicate{}, fmt.Errorf("%w: empty argument to -user", domain.ErrArgument)
	}

	if isDigits(arg) {
		uid, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return domain.OwnerPredicate{}, fmt.Errorf("%w: uid '%s' out of range", domain.ErrArgument, arg)
		}
		return domain.OwnerPredicate{Text: arg, Numeric: true, UID: uint32(uid)}, nil
	}

	if _, err := filepath.Match(arg, ""); err != nil {
		return domain.OwnerPredicate{}, fmt.Errorf("%w: bad pattern '%s' for -user", domain.ErrArgument, arg)
	}
	return domain.OwnerPredicate{Text: arg}, nil
}

// ParseMTime accepts N, +N or -N
func ParseMTime(arg string) (domain.MTimePredicate, error) {
	p := domain.MTimePredicate{Cmp: domain.CompareExact}

	digits := arg
	switch {
	case strings.HasPrefix(arg, "+"):
		p.Cmp = domain.CompareMore
		digits = arg[1:]
	case strings.HasPrefix(arg, "-"):
		p.Cmp = domain.CompareLess
		digits = arg[1:]
	}

	if !isDigits(digits) {
		return domain.MTimePredicate{}, fmt.Errorf("%w: invalid argument '%s' to -mtime", domain.ErrArgument, arg)
	}
	days, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return domain.MTimePredicate{}, fmt.Errorf("%w: invalid argument '%s' to -mtime", domain.ErrArgument, arg)
	}
	p.Days = days
	return p, nil
}

// ParseType accepts a comma separated list of d, f and l
func ParseType(arg string) (domain.TypePredicate, error) {
	var p domain.TypePredicate
	for _, code := range strings.Split(arg, ",") {
		var t domain.FileType
		switch code {
		case "d":
			t = domain.FileTypeDirectory
		case "f":
			t = domain.FileTypeRegular
		case "l":
			t = domain.FileTypeSymlink
		case "":
			return domain.TypePredicate{}, fmt.Errorf("%w: -type requires a type letter in '%s'", domain.ErrArgument, arg)
		default:
			return domain.TypePredicate{}, fmt.Errorf("%w: unknown argument to -type: %s", domain.ErrArgument, code)
		}
		p.Types = append(p.Types, t)
	}
	return p, nil
}

// ParseMaxDepth accepts a non-negative integer
func ParseMaxDepth(arg string) (domain.MaxDepthOption, error) {
	if !isDigits(arg) {
		return domain.MaxDepthOption{}, fmt.Errorf("%w: expected a non-negative integer argument to -maxdepth, but got '%s'", domain.ErrArgument, arg)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return domain.MaxDepthOption{}, fmt.Errorf("%w: -maxdepth value '%s' out of range", domain.ErrArgument, arg)
	}
	return domain.MaxDepthOption{Depth: n}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
