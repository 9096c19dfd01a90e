package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/sheetcalc/internal/config"
)

var errFail = errors.New("fail")

var (
	summary = "sheetcalc evaluates spreadsheet formulas"
	help    = `global options:
  -c file        read configuration from file
  -D key=value   set a configuration option (repeatable)`
)

var settings = config.Default()

func main() {
	var (
		set  = cli.NewFlagSet("sheetcalc")
		root = prepare()
		file string
		defs []string
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	set.StringVar(&file, "c", "", "configuration file")
	set.Func("D", "set configuration option (key.path=value)", func(str string) error {
		defs = append(defs, str)
		return nil
	})
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	if err := configure(file, defs); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle().Render(err.Error()))
		os.Exit(1)
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, errorStyle().Render(err.Error()))
		}
		os.Exit(1)
	}
}

func configure(file string, defs []string) error {
	var (
		cfg *config.Config
		err error
	)
	if file != "" {
		cfg, err = config.Load(file)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}
	for _, d := range defs {
		if err := cfg.Apply(d); err != nil {
			return err
		}
	}
	settings = cfg
	return nil
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"info"}, &infoCmd)
	root.Register([]string{"eval"}, &evalCmd)
	root.Register([]string{"dump"}, &dumpCmd)
	root.Register([]string{"precedents"}, &precedentsCmd)
	root.Register([]string{"print"}, &printCmd)
	root.Register([]string{"export"}, &exportCmd)
	return root
}

var infoCmd = cli.Command{
	Name:    "info",
	Summary: "get informations about sheets in given file",
	Usage:   "info <spreadsheet>",
	Handler: &GetInfoCommand{},
}

var evalCmd = cli.Command{
	Name:    "eval",
	Alias:   []string{"calc"},
	Summary: "evaluate a formula, optionally against the content of a spreadsheet",
	Usage:   "eval [-f spreadsheet] [-a cell] [-r range] <formula>",
	Handler: &EvalFormulaCommand{},
}

var dumpCmd = cli.Command{
	Name:    "dump",
	Summary: "list the cells of a spreadsheet with their formula and computed value",
	Usage:   "dump [-d] <spreadsheet> [<sheet>,...]",
	Handler: &DumpCellsCommand{},
}

var precedentsCmd = cli.Command{
	Name:    "precedents",
	Alias:   []string{"deps"},
	Summary: "list the areas and objects referenced by a formula",
	Usage:   "precedents [-f spreadsheet] [-s sheet] <formula>",
	Handler: &PrecedentsCommand{},
}

var printCmd = cli.Command{
	Name:    "print",
	Alias:   []string{"view", "show"},
	Summary: "print computed values of a sheet",
	Usage:   "print [-w width] [-s separator] [-n] <spreadsheet> [<sheet>,...]",
	Handler: &PrintSheetCommand{},
}

var exportCmd = cli.Command{
	Name:    "export",
	Alias:   []string{"extract"},
	Summary: "export computed values of one or more sheets to csv files or a sqlite database",
	Usage:   "export [-f csv|sqlite] [-d directory] [-o database] [-c delimiter] <spreadsheet> [sheet,...]",
	Handler: &ExportSheetCommand{},
}
