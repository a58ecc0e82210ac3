package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inn-lang/inn/internal/codegen"
	"github.com/inn-lang/inn/internal/diagnostics"
	"github.com/inn-lang/inn/internal/parser"
	"github.com/inn-lang/inn/internal/position"
)

func newCheckCmd(a *app) *cobra.Command {
	var withCodegen bool

	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Report the first syntax error of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := a.checkFiles(cmd.Context(), args, withCodegen)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stderr, dm.FormatAll(a.colorFor(a.stderr)))
			if dm.HasErrors() {
				a.log.Info("%s", dm.FormatSummary())
				return errReported
			}
			a.log.Info("%d file(s) ok", len(args))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withCodegen, "codegen", false, "also run C code generation")
	return cmd
}

// checkFiles parses the files concurrently and collects one diagnostic per
// failing file, sorted by file name.
func (a *app) checkFiles(ctx context.Context, paths []string, withCodegen bool) (*diagnostics.DiagnosticManager, error) {
	dm := diagnostics.NewDiagnosticManager()
	dm.SetErrorLimit(len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := a.checkSource(path, withCodegen); err != nil {
				var se *sourceError
				if !errors.As(err, &se) {
					return err
				}
				dm.AddDiagnostic(diagnostics.FromError(se.err, se.file))
				return nil
			}
			a.log.Debug("%s ok", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	dm.SortDiagnostics()
	return dm, nil
}

// sourceError carries a failure together with the file it belongs to.
type sourceError struct {
	err  error
	file *position.SourceFile
}

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

func (a *app) checkSource(path string, withCodegen bool) error {
	src, err := a.readSource(path)
	if err != nil {
		return &sourceError{err: err, file: position.NewSourceFile(path, "")}
	}
	prog, err := parser.ParseString(src.Content)
	if err != nil {
		return &sourceError{err: err, file: src}
	}
	if withCodegen {
		if _, err := codegen.EmitC(prog); err != nil {
			return &sourceError{err: err, file: src}
		}
	}
	return nil
}
