package csv

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/midbel/sheetcalc/format"
	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/layout"
)

// Open loads the content of a CSV file in a new sheet of the workbook.
func Open(file string, book *grid.Workbook, sheet string) error {
	r, err := os.Open(file)
	if err != nil {
		return err
	}
	defer r.Close()
	return Load(r, book, sheet)
}

// Load reads the CSV records into a new sheet of the workbook, one record
// per row. Fields are interpreted as typed in a cell: fields starting with
// an equal sign are formulas.
func Load(r io.Reader, book *grid.Workbook, sheet string) error {
	if _, err := book.AddSheet(sheet); err != nil {
		return err
	}
	rs := NewReader(r)
	for line := int64(1); ; line++ {
		fields, err := rs.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		for col, f := range fields {
			pos := layout.Position{
				Sheet:  sheet,
				Line:   line,
				Column: int64(col) + 1,
			}
			if err := book.SetInput(pos, f); err != nil {
				return fmt.Errorf("%s: %w", pos, err)
			}
		}
	}
	return nil
}

type csvEncoder struct {
	writer    io.Writer
	formatter format.Formatter
	comma     byte
}

// EncodeCSV gives an encoder writing the computed values of a sheet as CSV.
func EncodeCSV(w io.Writer, formatter format.Formatter, comma byte) grid.Encoder {
	if comma == 0 {
		comma = ','
	}
	return &csvEncoder{
		writer:    w,
		formatter: formatter,
		comma:     comma,
	}
}

func (e *csvEncoder) EncodeSheet(view grid.View) error {
	writer := NewWriter(e.writer)
	writer.Comma = e.comma
	for row := range view.Rows() {
		fields := make([]string, 0, len(row))
		for i := range row {
			str, err := e.formatter.Format(row[i])
			if err != nil {
				str = row[i].String()
			}
			fields = append(fields, str)
		}
		if err := writer.Write(fields); err != nil {
			return err
		}
	}
	return writer.Flush()
}
