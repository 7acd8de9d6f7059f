package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Ning0612/myfind/internal/config"
	"github.com/Ning0612/myfind/internal/logger"
	"github.com/Ning0612/myfind/internal/service"
)

// Version is injected at build time via -ldflags
var Version = "dev"

const usage = `Usage: myfind [-H] [-L] [-P] [path...] [expression]

Link options (before any path; the last one wins):
  -P            never follow symbolic links (default)
  -H            follow symbolic links given as paths only
  -L            follow all symbolic links

Expression (every test must hold):
  -name PATTERN     base name matches the shell pattern
  -user NAME|UID    owned by the login name pattern or numeric uid
  -type d,f,l       entry is any of the listed types
  -mtime [+|-]N     modified N days ago (+N: more than, -N: less than)
  -maxdepth N       descend at most N levels below each path (0: unbounded)
  -ls               print a detailed listing line; repeat for more copies
  -print            print the name (default when -ls is absent)

Other:
  --help            show this help
  --version         show the version

Configuration is read from myfind.yaml and MYFIND_* environment variables.
`

// NewRootCommand creates and returns the root cobra command for myfind.
// find-style arguments cannot be expressed as flags, so flag parsing is
// disabled and the raw arguments go to Parse.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "myfind [-H|-L|-P] [path...] [expression]",
		Short: "Search a directory hierarchy",
		Long: `myfind walks each path depth-first and prints every entry that
satisfies all of the given tests, either as a plain name or as a detailed
listing line.`,
		Version:            Version,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error with the program prefix
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	inv, err := Parse(args)
	if err != nil {
		return err
	}

	if inv.Help {
		_, err := io.WriteString(out, usage)
		return err
	}
	if inv.Version {
		_, err := fmt.Fprintf(out, "myfind version %s\n", Version)
		return err
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LoggerConfig(cmd.ErrOrStderr())); err != nil {
		return err
	}
	defer logger.Shutdown()

	svc, err := service.NewFindService(cfg, service.Options{
		Out:   out,
		Color: useColor(cfg.Output.Color, out),
	})
	if err != nil {
		return err
	}

	for _, warning := range inv.Warnings {
		svc.Diagnostics().Printf("%s", warning)
	}

	_, err = svc.Run(cmd.Context(), inv.Paths, inv.Task())
	return err
}

// useColor resolves the output.color setting for w.
// auto enables color only on a terminal and honours NO_COLOR.
func useColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
