package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inn-lang/inn/internal/diagnostics"
	"github.com/inn-lang/inn/internal/format"
)

type fmtFlags struct {
	write bool
	diff  bool
	list  bool
}

func newFmtCmd(a *app) *cobra.Command {
	var flags fmtFlags

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Rewrite files in canonical layout",
		Long: `fmt re-renders each file from its syntax tree with minimal parentheses
and block indentation. Files containing comments only get whitespace
cleanup, since the tree does not keep comments. With no files, fmt reads
standard input and writes standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			if flags.write && contains(args, "-") {
				return errors.New("cannot use -w with standard input")
			}

			failed := false
			for _, path := range args {
				if err := a.formatFile(path, flags); err != nil {
					if !errors.Is(err, errReported) {
						a.log.Error("%s: %v", path, err)
					}
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the result to the source file")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff instead of the formatted source")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "list files whose formatting differs")
	return cmd
}

func (a *app) formatFile(path string, flags fmtFlags) error {
	src, err := a.readSource(path)
	if err != nil {
		return err
	}
	formatted, structural, err := format.Source(src.Content, a.formatOptions())
	if err != nil {
		return a.report(err, src)
	}
	if !structural {
		a.print(diagnostics.CommentsKeptWarning(src.Filename))
	}
	changed := formatted != src.Content

	switch {
	case flags.diff:
		if changed {
			df := format.NewDiffFormatter(format.DefaultDiffOptions())
			fmt.Fprint(a.stdout, df.FormatDiff(src.Filename, df.GenerateDiff(src.Content, formatted)))
		}
	case flags.list:
		if changed {
			fmt.Fprintln(a.stdout, src.Filename)
		}
	case flags.write:
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return err
			}
			a.log.Info("formatted %s", path)
		}
	default:
		fmt.Fprint(a.stdout, formatted)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
