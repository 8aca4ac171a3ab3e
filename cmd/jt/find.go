package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/search"
)

func find(cfg *FindConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Find.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: find [-e] <query> [file]", cli.ErrUsage)
	}
	file := "-"
	if len(args) == 2 {
		file = args[1]
	}
	st, err := loadState(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	var matches []ir.ID
	if cfg.Expr {
		prg, err := search.CompileFilter(args[0])
		if err != nil {
			return fmt.Errorf("bad filter expression: %w", err)
		}
		matches, err = search.FindExpr(st.Doc, st.Doc.Root, prg)
		if err != nil {
			return err
		}
	} else {
		matches = search.Find(st.Doc, st.Doc.Root, args[0])
	}
	for _, id := range matches {
		fmt.Fprintln(cc.Out, st.Doc.PathOf(id))
	}
	return nil
}
