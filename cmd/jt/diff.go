package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	jsontree "github.com/signadot/jsontree"
	"github.com/signadot/jsontree/history"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := loadState(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := loadState(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	return diffStates(cfg, cc, a, b)
}

func diffStates(cfg *DiffConfig, cc *cli.Context, a, b *jsontree.State) error {
	if cfg.Merge {
		patch, err := history.MergePatch(a.Snapshot(), b.Snapshot())
		if err != nil {
			return fmt.Errorf("error computing merge patch: %w", err)
		}
		_, err = fmt.Fprintf(cc.Out, "%s\n", patch)
		return err
	}
	_, err := fmt.Fprint(cc.Out, history.TextDiff(a.Snapshot(), b.Snapshot()))
	return err
}
