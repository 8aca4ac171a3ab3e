package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	jsontree "github.com/signadot/jsontree"
	"github.com/signadot/jsontree/ir"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: set <path> <value> [file]", cli.ErrUsage)
	}
	file := "-"
	if len(args) == 3 {
		file = args[2]
	}
	st, err := loadState(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	id, err := resolveArg(st, args[0])
	if err != nil {
		return err
	}
	typ, val, err := scalarArg(args[1])
	if err != nil {
		return err
	}
	st, notice := jsontree.Apply(st, jsontree.EditPrimitive{Node: id, Type: typ, Value: val})
	if err := noticeErr(notice); err != nil {
		return err
	}
	return writeState(cfg.MainConfig, cc, st)
}

func add(cfg *AddConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Add.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: add [-t type] <parent-path> <key> [file] (key '' for arrays)", cli.ErrUsage)
	}
	typ := ir.NullType
	if cfg.Type != "" {
		typ, err = parseType(cfg.Type)
		if err != nil {
			return err
		}
	}
	st, err := loadState(cfg.MainConfig, cc, lastFile(args, 2))
	if err != nil {
		return err
	}
	parent, err := resolveArg(st, args[0])
	if err != nil {
		return err
	}
	st, notice := jsontree.Apply(st, jsontree.AddNode{Parent: parent, Key: args[1], Type: typ})
	if err := noticeErr(notice); err != nil {
		return err
	}
	return writeState(cfg.MainConfig, cc, st)
}

func del(cfg *DelConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Del.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: del <path> [file]", cli.ErrUsage)
	}
	st, err := loadState(cfg.MainConfig, cc, lastFile(args, 1))
	if err != nil {
		return err
	}
	id, err := resolveArg(st, args[0])
	if err != nil {
		return err
	}
	parent, err := parentOf(st, id)
	if err != nil {
		return err
	}
	st, notice := jsontree.Apply(st, jsontree.DeleteNode{Parent: parent, Child: id})
	if err := noticeErr(notice); err != nil {
		return err
	}
	return writeState(cfg.MainConfig, cc, st)
}

func rename(cfg *RenameConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Rename.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: rename <path> <new-key> [file]", cli.ErrUsage)
	}
	st, err := loadState(cfg.MainConfig, cc, lastFile(args, 2))
	if err != nil {
		return err
	}
	id, err := resolveArg(st, args[0])
	if err != nil {
		return err
	}
	parent, err := parentOf(st, id)
	if err != nil {
		return err
	}
	st, notice := jsontree.Apply(st, jsontree.RenameKey{Parent: parent, Child: id, NewKey: args[1]})
	if err := noticeErr(notice); err != nil {
		return err
	}
	return writeState(cfg.MainConfig, cc, st)
}

func move(cfg *MoveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Move.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: move <path> up|down [file]", cli.ErrUsage)
	}
	dir := 0
	switch args[1] {
	case "up":
		dir = -1
	case "down":
		dir = 1
	default:
		return fmt.Errorf("%w: direction %q, want up or down", cli.ErrUsage, args[1])
	}
	st, err := loadState(cfg.MainConfig, cc, lastFile(args, 2))
	if err != nil {
		return err
	}
	id, err := resolveArg(st, args[0])
	if err != nil {
		return err
	}
	parent, err := parentOf(st, id)
	if err != nil {
		return err
	}
	st, notice := jsontree.Apply(st, jsontree.MoveArrayItem{Parent: parent, Child: id, Direction: dir})
	if err := noticeErr(notice); err != nil {
		return err
	}
	return writeState(cfg.MainConfig, cc, st)
}

func sortKeys(cfg *SortConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sort.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: sort [-at path] [file]", cli.ErrUsage)
	}
	file := "-"
	if len(args) == 1 {
		file = args[0]
	}
	st, err := loadState(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	cmd := jsontree.SortKeys{WholeDoc: true}
	if cfg.At != "" {
		id, err := resolveArg(st, cfg.At)
		if err != nil {
			return err
		}
		cmd = jsontree.SortKeys{Node: id}
	}
	st, notice := jsontree.Apply(st, cmd)
	if err := noticeErr(notice); err != nil {
		return err
	}
	return writeState(cfg.MainConfig, cc, st)
}

// lastFile returns the optional trailing file argument after n fixed args.
func lastFile(args []string, n int) string {
	if len(args) > n {
		return args[len(args)-1]
	}
	return "-"
}
