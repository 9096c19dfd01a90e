// Package doc opens spreadsheet files of any supported format as a workbook.
package doc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/sheetcalc/csv"
	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/oxml"
)

var ErrFormat = errors.New("unsupported format")

type Format int

const (
	Unknown Format = iota
	CSV
	OXML
	ODS
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case OXML:
		return "xlsx"
	case ODS:
		return "ods"
	default:
		return "unknown"
	}
}

// Open detects the format of file and loads it. A CSV file is loaded in a
// sheet named after the file.
func Open(file string, options ...grid.Option) (*grid.Workbook, error) {
	format, err := DetectFormat(file)
	if err != nil {
		return nil, err
	}
	return OpenFormat(file, format, options...)
}

func OpenFormat(file string, format Format, options ...grid.Option) (*grid.Workbook, error) {
	switch format {
	case CSV:
		book := grid.NewWorkbook(options...)
		if err := csv.Open(file, book, SheetName(file)); err != nil {
			return nil, err
		}
		return book, nil
	case OXML:
		return oxml.Open(file, options...)
	default:
		return nil, fmt.Errorf("%s: %w (%s)", file, ErrFormat, format)
	}
}

// SheetName gives the base name of file without its extension.
func SheetName(file string) string {
	name := filepath.Base(file)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func DetectFormat(file string) (Format, error) {
	ok, err := isZip(file)
	if err != nil {
		return Unknown, err
	}
	if ok {
		return detectZip(file)
	}
	return CSV, nil
}

func detectZip(file string) (Format, error) {
	z, err := zip.OpenReader(file)
	if err != nil {
		return Unknown, err
	}
	defer z.Close()
	for _, f := range z.File {
		switch f.Name {
		case "xl/workbook.xml", "[Content_Types].xml":
			return OXML, nil
		case "mimetype":
			if isODS(f) {
				return ODS, nil
			}
		default:
		}
	}
	return Unknown, nil
}

func isODS(f *zip.File) bool {
	r, err := f.Open()
	if err != nil {
		return false
	}
	defer r.Close()

	buf, _ := io.ReadAll(r)
	return string(buf) == "application/vnd.oasis.opendocument.spreadsheet"
}

var magicZipBytes = [][]byte{
	{0x50, 0x4b, 0x03, 0x04},
	{0x50, 0x4b, 0x05, 0x06},
	{0x50, 0x4b, 0x07, 0x08},
}

func isZip(file string) (bool, error) {
	r, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer r.Close()

	magic := make([]byte, len(magicZipBytes[0]))
	if _, err := io.ReadFull(r, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	for _, mzb := range magicZipBytes {
		if bytes.Equal(magic, mzb) {
			return true, nil
		}
	}
	return false, nil
}
