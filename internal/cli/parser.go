package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Ning0612/myfind/internal/core/predicate"
	"github.com/Ning0612/myfind/internal/domain"
)

// maxDepthWarning is printed when -maxdepth follows a test or action
const maxDepthWarning = "myfind: warning: you have specified the -maxdepth option after a " +
	"non-option argument %s, but options are not positional (-maxdepth affects tests " +
	"specified before it as well as those specified after it). Please specify options " +
	"before other arguments."

// signedDays is the form of a -mtime value that may begin with '-'
var signedDays = regexp.MustCompile(`^-[0-9]+$`)

// Invocation is the parsed command line
type Invocation struct {
	// Paths in command line order; "." when none were given
	Paths []string

	// Predicates in command line order, including -maxdepth, -ls and -print
	Predicates []domain.Predicate

	LinkMode    domain.LinkMode
	MaxDepth    int
	RepeatCount int

	Help    bool
	Version bool

	// Warnings are non-fatal diagnostics produced while parsing
	Warnings []string
}

// Task returns the task descriptor for this invocation without roots;
// roots are resolved against the filesystem by the caller.
func (inv *Invocation) Task() domain.Task {
	return domain.Task{
		Predicates:  inv.Predicates,
		LinkMode:    inv.LinkMode,
		MaxDepth:    inv.MaxDepth,
		RepeatCount: inv.RepeatCount,
	}
}

// primary describes one expression keyword
type primary struct {
	hasValue bool
	once     bool
	parse    func(value string) (domain.Predicate, error)
}

var primaries = map[string]primary{
	"-name": {hasValue: true, once: true, parse: func(v string) (domain.Predicate, error) {
		return predicate.ParseName(v)
	}},
	"-user": {hasValue: true, once: true, parse: func(v string) (domain.Predicate, error) {
		return predicate.ParseOwner(v)
	}},
	"-type": {hasValue: true, once: true, parse: func(v string) (domain.Predicate, error) {
		return predicate.ParseType(v)
	}},
	"-mtime": {hasValue: true, once: true, parse: func(v string) (domain.Predicate, error) {
		return predicate.ParseMTime(v)
	}},
	"-maxdepth": {hasValue: true, once: true, parse: func(v string) (domain.Predicate, error) {
		return predicate.ParseMaxDepth(v)
	}},
	"-ls": {parse: func(string) (domain.Predicate, error) {
		return domain.ListDirective{}, nil
	}},
	"-print": {parse: func(string) (domain.Predicate, error) {
		return domain.PrintDirective{}, nil
	}},
}

// Parse tokenizes args (without the program name) in three phases:
// link options, paths, then the expression.
func Parse(args []string) (*Invocation, error) {
	inv := &Invocation{LinkMode: domain.LinkNever, RepeatCount: 1}

	i := parseLinkOptions(inv, args)

	start := i
	for i < len(args) && !isExpression(args[i]) {
		i++
	}
	inv.Paths = append(inv.Paths, args[start:i]...)
	if len(inv.Paths) == 0 {
		inv.Paths = []string{"."}
	}

	seen := make(map[string]bool)
	listCount := 0

	for ; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--help", "-help":
			inv.Help = true
			continue
		case "--version", "-version":
			inv.Version = true
			continue
		}

		if !isExpression(arg) {
			return nil, fmt.Errorf("%w: paths must precede expression: '%s'", domain.ErrArgument, arg)
		}

		p, ok := primaries[arg]
		if !ok {
			return nil, fmt.Errorf("%w '%s'", domain.ErrUnknownPredicate, arg)
		}

		if p.once {
			if seen[arg] {
				return nil, fmt.Errorf("%w: duplicate predicate '%s'", domain.ErrArgument, arg)
			}
			seen[arg] = true
		}

		var value string
		if p.hasValue {
			if !hasValue(arg, args, i) {
				return nil, fmt.Errorf("%w to '%s'", domain.ErrMissingArgument, arg)
			}
			i++
			value = args[i]
		}

		pred, err := p.parse(value)
		if err != nil {
			return nil, err
		}

		switch v := pred.(type) {
		case domain.MaxDepthOption:
			if len(inv.Predicates) > 0 {
				inv.Warnings = append(inv.Warnings, fmt.Sprintf(maxDepthWarning, inv.Predicates[len(inv.Predicates)-1].Flag()))
			}
			inv.MaxDepth = v.Depth
		case domain.ListDirective:
			listCount++
		}

		inv.Predicates = append(inv.Predicates, pred)
	}

	if listCount > 1 {
		inv.RepeatCount = listCount
	}

	return inv, nil
}

// parseLinkOptions consumes leading -H, -L and -P; the last one wins.
// "--" ends the link options and is consumed. It returns the index of the
// first argument after them.
func parseLinkOptions(inv *Invocation, args []string) int {
	for i, arg := range args {
		switch arg {
		case "-H":
			inv.LinkMode = domain.LinkArgsOnly
		case "-L":
			inv.LinkMode = domain.LinkAlways
		case "-P":
			inv.LinkMode = domain.LinkNever
		case "--":
			return i + 1
		default:
			return i
		}
	}
	return len(args)
}

// isExpression reports whether arg starts the expression; "-" alone is a path
func isExpression(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// hasValue reports whether the primary at index i is followed by a value.
// A value may not start with '-', except a signed -mtime day count.
func hasValue(flag string, args []string, i int) bool {
	if i+1 >= len(args) {
		return false
	}
	next := args[i+1]
	if !strings.HasPrefix(next, "-") {
		return true
	}
	return flag == "-mtime" && signedDays.MatchString(next)
}
