package main

import (
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"

	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/parse"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	Wire  bool `cli:"name=wire desc='output in compact form'"`
	Y     bool `cli:"name=y aliases=yaml desc='parse input as yaml'"`

	Main *cli.Command
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	fmat := parse.JSONFormat
	if cfg.Y {
		fmat = parse.YAMLFormat
	}
	return []parse.ParseOption{parse.ParseFormat(fmat)}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeWire(cfg.Wire),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig

	Set *cli.Command
}

type AddConfig struct {
	*MainConfig

	Type string `cli:"name=t desc='node type: string, number, bool, null, object, array'"`

	Add *cli.Command
}

type DelConfig struct {
	*MainConfig

	Del *cli.Command
}

type RenameConfig struct {
	*MainConfig

	Rename *cli.Command
}

type MoveConfig struct {
	*MainConfig

	Move *cli.Command
}

type SortConfig struct {
	*MainConfig

	At string `cli:"name=at desc='sort only the subtree at this path'"`

	Sort *cli.Command
}

type FindConfig struct {
	*MainConfig

	Expr bool `cli:"name=e desc='treat query as a filter expression'"`

	Find *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Merge bool `cli:"name=m desc='output an rfc 7386 merge patch'"`

	Diff *cli.Command
}

type ReplConfig struct {
	*MainConfig

	Session string `cli:"name=s desc='session file to load and save'"`

	Repl *cli.Command
}
