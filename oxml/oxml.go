package oxml

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"

	"github.com/midbel/sheetcalc/grid"
)

const (
	FormulaNormal = "normal"
	FormulaShared = "shared"
	FormulaArray  = "array"
)

const (
	TypeSharedStr = "s"
	TypeInlineStr = "inlineStr"
	TypeFormula   = "str"
	TypeDate      = "d"
	TypeError     = "e"
	TypeBool      = "b"
	TypeNumber    = "n"
)

var ErrFile = errors.New("invalid spreadsheet")

// Open loads the workbook stored in the given xlsx file.
func Open(file string, options ...grid.Option) (*grid.Workbook, error) {
	z, err := zip.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFile, err)
	}
	defer z.Close()
	return decode(&z.Reader, options...)
}

// Decode loads a workbook from the content of a xlsx file.
func Decode(r io.ReaderAt, size int64, options ...grid.Option) (*grid.Workbook, error) {
	z, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFile, err)
	}
	return decode(z, options...)
}

func decode(z *zip.Reader, options ...grid.Option) (*grid.Workbook, error) {
	book := grid.NewWorkbook(options...)
	rs := reader{
		files:  z.File,
		base:   wbBaseDir,
		book:   book,
		logger: book.Logger(),
	}
	if err := rs.ReadFile(); err != nil {
		return nil, err
	}
	return book, nil
}
