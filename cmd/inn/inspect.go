package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inn-lang/inn/internal/ast"
	"github.com/inn-lang/inn/internal/lexer"
	"github.com/inn-lang/inn/internal/parser"
	"github.com/inn-lang/inn/internal/position"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := lexer.Tokenize(src.Content)
			if err != nil {
				return a.report(err, src)
			}
			for _, tok := range tokens {
				fmt.Fprintf(a.stdout, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal)
			}
			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of a file or expression",
		Example: `  inn parse main.inn
  inn parse --expr '-x ^ 2'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if expr != "" {
				if len(args) > 0 {
					return errors.New("--expr cannot be combined with a file")
				}
				e, err := parser.ParseExpr(expr)
				if err != nil {
					return a.report(err, position.NewSourceFile("<expr>", expr))
				}
				fmt.Fprintln(a.stdout, ast.Dump(e))
				return nil
			}
			if len(args) == 0 {
				return errors.New("parse needs a file or --expr")
			}

			src, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			prog, err := parser.ParseString(src.Content)
			if err != nil {
				return a.report(err, src)
			}
			a.log.Info("%s: %d top-level units", src.Filename, len(prog.Units))
			if len(prog.Units) > 0 {
				fmt.Fprintln(a.stdout, ast.Dump(prog))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "parse a single expression instead of a file")
	return cmd
}
