package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/parse"
)

func encodeValue(cfg *MainConfig, w io.Writer, v any) error {
	return encode.Encode(v, w, cfg.encOpts(w)...)
}

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		if err := viewFile(cfg, cc, file); err != nil {
			return err
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, file string) error {
	d, err := readInput(cc, file)
	if err != nil {
		return err
	}
	v, err := parse.Parse(d, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	return writeValue(cfg.MainConfig, cc, v)
}

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: get <path> [file]", cli.ErrUsage)
	}
	file := "-"
	if len(args) == 2 {
		file = args[1]
	}
	st, err := loadState(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	id, err := resolveArg(st, args[0])
	if err != nil {
		return err
	}
	return writeValue(cfg.MainConfig, cc, st.Doc.ValueAt(id))
}
