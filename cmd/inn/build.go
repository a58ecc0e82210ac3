package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inn-lang/inn/internal/build"
	"github.com/inn-lang/inn/internal/codegen"
	"github.com/inn-lang/inn/internal/parser"
)

type buildOptions struct {
	output  string
	emitC   bool
	cc      string
	timeout time.Duration
}

func newBuildCmd(a *app) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a program to C and link it",
		Long: `build translates the program to C, writes <name>.c and runs the C
compiler on it. Programs using ^ or libm functions are linked with -lm.`,
		Example: `  inn build main.inn
  inn build -o hello main.inn
  inn build --emit-c -o main.c main.inn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.build(cmd.Context(), args[0], opts)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (the executable, or the C file with --emit-c)")
	cmd.Flags().BoolVar(&opts.emitC, "emit-c", false, "stop after writing the C source")
	cmd.Flags().StringVar(&opts.cc, "cc", "", "C compiler (overrides config and INN_CC)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "limit on the C compiler run, 0 for none")
	return cmd
}

// build compiles path and returns the file it produced.
func (a *app) build(ctx context.Context, path string, opts buildOptions) (string, error) {
	src, err := a.readSource(path)
	if err != nil {
		return "", err
	}
	prog, err := parser.ParseString(src.Content)
	if err != nil {
		return "", a.report(err, src)
	}
	out, err := codegen.EmitC(prog)
	if err != nil {
		return "", a.report(err, src)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if path == "-" {
		base = "a"
	}
	if a.cfg.OutDir != "" {
		if err := os.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
			return "", err
		}
	}

	dir := filepath.Dir(path)
	if path == "-" {
		dir = "."
	}
	cPath := a.outputPath(dir, base+".c")
	if opts.emitC && opts.output != "" {
		cPath = opts.output
	}
	if err := os.WriteFile(cPath, []byte(out.Source), 0o644); err != nil {
		return "", err
	}
	a.log.Info("wrote %s", cPath)
	if opts.emitC {
		return cPath, nil
	}

	exe := opts.output
	if exe == "" {
		exe = a.outputPath(dir, base) + build.HostPlatform().ExeSuffix()
	}
	if err := a.compileC(ctx, cPath, exe, out.Libraries, opts); err != nil {
		return "", err
	}
	a.log.Info("built %s", exe)
	return exe, nil
}

func (a *app) compileC(ctx context.Context, cPath, exe string, libs []string, opts buildOptions) error {
	tc := build.CToolchain{CC: a.cfg.CC, CFlags: a.cfg.CFlags}
	if opts.cc != "" {
		tc.CC = opts.cc
	}
	spec, err := tc.Compile(cPath, exe, libs)
	if err != nil {
		return err
	}
	a.log.Debug("running %s", spec)
	return build.Run(ctx, spec, opts.timeout)
}
