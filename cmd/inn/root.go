package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inn-lang/inn/internal/cli"
	"github.com/inn-lang/inn/internal/diagnostics"
	"github.com/inn-lang/inn/internal/format"
	"github.com/inn-lang/inn/internal/position"
)

// errReported means the failure was already rendered as a diagnostic.
var errReported = errors.New("errors reported")

// app is the state shared by all subcommands.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	cfgFile string
	color   string
	verbose bool
	debug   bool

	cfg *cli.Config
	log *cli.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "inn",
		Short: "Toolchain for the inn language",
		Long: `inn reads programs written in the inn language.

Commands:
  build   compile a program to C and link it with the system C compiler
  check   report syntax errors in one or more files
  fmt     rewrite files in canonical layout
  parse   print the syntax tree of a file
  tokens  print the token stream of a file
  watch   re-check or rebuild a file whenever it changes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: inn.toml, inn.yaml or inn.yml in the working directory)")
	flags.StringVar(&a.color, "color", "", "colour output: auto, always or never (overrides the config file)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&a.debug, "debug", false, "debug output")

	root.AddCommand(
		newBuildCmd(a),
		newCheckCmd(a),
		newConfigCmd(a),
		newFmtCmd(a),
		newParseCmd(a),
		newTokensCmd(a),
		newVersionCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) setup() error {
	path := a.cfgFile
	if path == "" {
		path = cli.FindConfig(".")
	}
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return err
	}
	if a.color != "" {
		cfg.Color = a.color
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.log = cli.NewLogger(a.verbose, a.debug)
	a.log.SetOutput(a.stderr)
	a.log.Color = a.colorFor(a.stderr)
	if cfg.Path != "" {
		a.log.Debug("loaded config %s", cfg.Path)
	}
	return nil
}

// colorFor resolves colour output for w, which is only ever a terminal
// when it is an *os.File.
func (a *app) colorFor(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return a.cfg.ColorEnabled(f.Fd())
	}
	return a.cfg.Color == cli.ColorAlways
}

func (a *app) formatOptions() format.Options {
	opts := format.DefaultOptions()
	if a.cfg.IndentSize > 0 {
		opts.IndentSize = a.cfg.IndentSize
	}
	opts.PreferTabs = a.cfg.UseTabs
	return opts
}

// readSource reads a program from path, or from stdin for "-".
func (a *app) readSource(path string) (*position.SourceFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	name := path
	if path == "-" {
		name = "<stdin>"
	}
	return position.NewSourceFile(name, string(data)), nil
}

// report renders err for src on stderr and returns errReported.
func (a *app) report(err error, src *position.SourceFile) error {
	a.print(diagnostics.FromError(err, src))
	return errReported
}

func (a *app) print(d diagnostics.Diagnostic) {
	fmt.Fprint(a.stderr, diagnostics.FormatDiagnostic(d, a.colorFor(a.stderr)))
}

// outputPath places a build product in the configured output directory,
// or next to the source in srcDir when none is set.
func (a *app) outputPath(srcDir, name string) string {
	if a.cfg.OutDir == "" {
		return filepath.Join(srcDir, name)
	}
	return filepath.Join(a.cfg.OutDir, name)
}
