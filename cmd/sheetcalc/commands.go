package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/sheetcalc/csv"
	"github.com/midbel/sheetcalc/doc"
	"github.com/midbel/sheetcalc/format"
	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/store"
	"github.com/midbel/sheetcalc/value"
)

const defaultSheet = "Sheet1"

func options() ([]grid.Option, error) {
	loc, err := settings.ValueLocale()
	if err != nil {
		return nil, err
	}
	list := []grid.Option{
		grid.WithLocale(loc),
		grid.WithLogger(settings.Logger(os.Stderr)),
	}
	return list, nil
}

// openWorkbook loads the given file. Without file, the workbook has a
// single empty sheet.
func openWorkbook(file string) (*grid.Workbook, error) {
	opts, err := options()
	if err != nil {
		return nil, err
	}
	if file == "" {
		book := grid.NewWorkbook(opts...)
		_, err := book.AddSheet(defaultSheet)
		return book, err
	}
	return doc.Open(file, opts...)
}

func selectSheets(book *grid.Workbook, names []string) ([]*grid.Sheet, error) {
	if len(names) == 0 {
		return book.Sheets(), nil
	}
	var list []*grid.Sheet
	for _, n := range names {
		sh, err := book.Sheet(n)
		if err != nil {
			return nil, err
		}
		list = append(list, sh)
	}
	return list, nil
}

func firstSheet(book *grid.Workbook) string {
	sheets := book.Sheets()
	if len(sheets) == 0 {
		return defaultSheet
	}
	return sheets[0].Name()
}

type GetInfoCommand struct{}

func (c GetInfoCommand) Run(args []string) error {
	set := cli.NewFlagSet("info")
	if err := set.Parse(args); err != nil {
		return err
	}
	book, err := openWorkbook(set.Arg(0))
	if err != nil {
		return err
	}
	pattern := "%d %s(%s): %d lines, %d columns - %s"
	for _, s := range book.Sheets() {
		var (
			bounds = s.Bounds()
			locked = "unlocked"
		)
		if s.IsLock() {
			locked = "locked"
		}
		fmt.Fprintf(os.Stdout, pattern, s.Index, s.Name(), s.State, bounds.Height(), bounds.Width(), locked)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type EvalFormulaCommand struct {
	File   string
	Anchor string
	Range  string
}

func (c EvalFormulaCommand) Run(args []string) error {
	set := cli.NewFlagSet("eval")
	set.StringVar(&c.File, "f", "", "spreadsheet giving the content of referenced cells")
	set.StringVar(&c.Anchor, "a", "", "cell where the formula is evaluated")
	set.StringVar(&c.Range, "r", "", "range receiving the array result")
	if err := set.Parse(args); err != nil {
		return err
	}
	text := strings.Join(set.Args(), " ")
	if text == "" {
		return fmt.Errorf("missing formula")
	}
	book, err := openWorkbook(c.File)
	if err != nil {
		return err
	}
	vf, err := formatter()
	if err != nil {
		return err
	}
	if c.Range != "" {
		area := layout.RangeFromString(c.Range)
		if area.Sheet() == "" {
			area = area.WithSheet(firstSheet(book))
		}
		arr, err := book.EvaluateArray(area, text)
		if err != nil {
			return err
		}
		for _, row := range arr.Rows() {
			printRow(os.Stdout, vf, row, "\t", 0)
		}
		return nil
	}
	anchor := layout.Position{Line: 1, Column: 1}
	if c.Anchor != "" {
		anchor = layout.ParsePosition(c.Anchor)
	}
	if anchor.Sheet == "" {
		anchor.Sheet = firstSheet(book)
	}
	v, err := book.Evaluate(anchor, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, renderValue(v, formatValue(vf, v)))
	return nil
}

type DumpCellsCommand struct{}

func (c DumpCellsCommand) Run(args []string) error {
	set := cli.NewFlagSet("dump")
	if err := set.Parse(args); err != nil {
		return err
	}
	book, err := openWorkbook(set.Arg(0))
	if err != nil {
		return err
	}
	sheets, err := selectSheets(book, set.Args()[min(1, set.NArg()):])
	if err != nil {
		return err
	}
	vf, err := formatter()
	if err != nil {
		return err
	}
	for _, sh := range sheets {
		fmt.Fprintln(os.Stdout, headerStyle().Render(sh.Name()))
		for cell := range sh.Cells() {
			pos := cell.Position
			pos.Sheet = ""
			text := cell.Formula
			if cell.Array {
				text = fmt.Sprintf("{%s} #%s", text, cell.Group[:8])
			}
			str := formatValue(vf, cell.Value)
			fmt.Fprintf(os.Stdout, "%-8s %-32s %s", pos, text, renderValue(cell.Value, str))
			fmt.Fprintln(os.Stdout)
		}
	}
	return nil
}

type PrecedentsCommand struct {
	File  string
	Sheet string
}

func (c PrecedentsCommand) Run(args []string) error {
	set := cli.NewFlagSet("precedents")
	set.StringVar(&c.File, "f", "", "spreadsheet defining sheets and names")
	set.StringVar(&c.Sheet, "s", "", "sheet of the formula")
	if err := set.Parse(args); err != nil {
		return err
	}
	text := strings.Join(set.Args(), " ")
	book, err := openWorkbook(c.File)
	if err != nil {
		return err
	}
	if c.Sheet == "" {
		c.Sheet = firstSheet(book)
	}
	areas, err := book.PrecedentAreas(c.Sheet, text)
	if err != nil {
		return err
	}
	objects, err := book.PrecedentObjects(c.Sheet, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, headerStyle().Render("areas"))
	for _, a := range areas {
		fmt.Fprintln(os.Stdout, "-", a)
	}
	fmt.Fprintln(os.Stdout, headerStyle().Render("objects"))
	for _, o := range objects {
		fmt.Fprintln(os.Stdout, "-", o)
	}
	return nil
}

type PrintSheetCommand struct {
	Width int
	Sep   string
	Lino  bool

	formatter format.Formatter
}

func (c PrintSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("print")
	set.StringVar(&c.Sep, "s", "|", "column separator")
	set.IntVar(&c.Width, "w", 12, "column width")
	set.BoolVar(&c.Lino, "n", false, "print line number")
	if err := set.Parse(args); err != nil {
		return err
	}
	book, err := openWorkbook(set.Arg(0))
	if err != nil {
		return err
	}
	sheets, err := selectSheets(book, set.Args()[min(1, set.NArg()):])
	if err != nil {
		return err
	}
	if c.formatter, err = formatter(); err != nil {
		return err
	}
	for _, sh := range sheets {
		if err := sh.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

func (c PrintSheetCommand) EncodeSheet(view grid.View) error {
	if c.Width <= 0 {
		c.Width = 16
	}
	fmt.Fprintln(os.Stdout, headerStyle().Render(view.Name()))
	var lino int
	for row := range view.Rows() {
		lino++
		if c.Lino {
			fmt.Fprint(os.Stdout, faintStyle().Render(fmt.Sprintf("%-5d ", lino)))
			fmt.Fprint(os.Stdout, c.Sep)
		}
		printRow(os.Stdout, c.formatter, row, c.Sep, c.Width)
	}
	return nil
}

func printRow(w io.Writer, vf format.Formatter, row []value.ScalarValue, sep string, width int) {
	for i, v := range row {
		if i > 0 {
			fmt.Fprint(w, sep)
		}
		str := formatValue(vf, v)
		if width > 0 {
			str = fmt.Sprintf(" %-*s ", width, str)
		}
		fmt.Fprint(w, renderValue(v, str))
	}
	fmt.Fprintln(w)
}

type ExportSheetCommand struct {
	OutDir    string
	OutFile   string
	Format    string
	Delimiter string
}

func (c ExportSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("export")
	set.StringVar(&c.OutDir, "d", "", "write csv files to directory")
	set.StringVar(&c.OutFile, "o", "sheetcalc.db", "sqlite database to write")
	set.StringVar(&c.Format, "f", "csv", "export to given format (csv, sqlite)")
	set.StringVar(&c.Delimiter, "c", "", "delimiter to use")
	if err := set.Parse(args); err != nil {
		return err
	}
	book, err := openWorkbook(set.Arg(0))
	if err != nil {
		return err
	}
	sheets, err := selectSheets(book, set.Args()[min(1, set.NArg()):])
	if err != nil {
		return err
	}
	switch c.Format {
	case "", "csv":
		return c.exportCSV(sheets)
	case "sqlite", "db":
		return c.exportDB(sheets)
	default:
		return fmt.Errorf("%s: unsupported format", c.Format)
	}
}

func (c ExportSheetCommand) exportCSV(sheets []*grid.Sheet) error {
	comma, err := csvSeparator(c.Delimiter)
	if err != nil {
		return err
	}
	vf, err := formatter()
	if err != nil {
		return err
	}
	if c.OutDir != "" {
		if err := os.MkdirAll(c.OutDir, 0755); err != nil {
			return err
		}
	}
	for _, sh := range sheets {
		w, err := os.Create(filepath.Join(c.OutDir, sh.Name()+".csv"))
		if err != nil {
			return err
		}
		err = sh.Encode(csv.EncodeCSV(w, vf, comma))
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c ExportSheetCommand) exportDB(sheets []*grid.Sheet) error {
	s, err := store.Open(c.OutFile)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	for _, sh := range sheets {
		if err := sh.Encode(s.Encoder(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func csvSeparator(str string) (byte, error) {
	var comma byte
	switch str {
	case "semi", "semicolon", ";":
		comma = ';'
	case "comma", ",", "":
		comma = ','
	case "tab", "\t":
		comma = '\t'
	case "colon", ":":
		comma = ':'
	default:
		return 0, fmt.Errorf("unsupported separator")
	}
	return comma, nil
}
