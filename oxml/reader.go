package oxml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"

	sax "github.com/midbel/codecs/xml"
	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type reader struct {
	files  []*zip.File
	base   string
	book   *grid.Workbook
	logger *slog.Logger

	sharedStrings []string
	err           error
}

func (r *reader) ReadFile() error {
	r.readSharedStrings()
	root := r.readWorkbook()
	r.readWorksheets(root.Sheets)
	r.readDefinedNames(root)
	return r.err
}

func (r *reader) readSharedStrings() {
	var root xmlSharedStrings
	if err := r.decodeXML(r.fromBase("sharedStrings.xml"), &root); err != nil {
		return
	}
	for _, s := range root.Values {
		r.sharedStrings = append(r.sharedStrings, s.String())
	}
}

func (r *reader) readWorkbook() xmlWorkbook {
	var root xmlWorkbook
	addr := r.readWorkbookLocation()
	if r.invalid() {
		return root
	}
	r.base = path.Dir(addr)
	if err := r.decodeXML(addr, &root); err != nil {
		r.err = err
		return root
	}
	for _, xs := range root.Sheets {
		sh, err := r.book.AddSheet(xs.Name)
		if err != nil {
			r.err = fmt.Errorf("%w: %w", ErrFile, err)
			return root
		}
		sh.State = grid.SheetStateFromString(xs.State)
	}
	return root
}

func (r *reader) readWorksheets(sheets []xmlSheet) {
	if r.invalid() {
		return
	}
	relations := r.readRelationsForSheets()
	for _, s := range sheets {
		ix := slices.IndexFunc(relations, func(r xmlRelation) bool {
			return r.Id == s.Id
		})
		if ix < 0 {
			r.err = fmt.Errorf("%w: no worksheet for sheet %s", ErrFile, s.Name)
			return
		}
		r.readWorksheet(s.Name, relations[ix].Target)
		if r.invalid() {
			break
		}
	}
}

func (r *reader) readWorksheet(sheet, addr string) {
	z, err := r.openFile(r.resolve(addr))
	if err != nil {
		r.err = err
		return
	}
	defer z.Close()

	rs := readSheet(z, sheet, r.sharedStrings)
	if err := rs.Read(); err != nil {
		r.err = fmt.Errorf("%w: %s: %w", ErrFile, sheet, err)
		return
	}
	r.loadCells(sheet, rs.cells)
	if rs.locked {
		if sh, err := r.book.Sheet(sheet); err == nil {
			sh.Lock()
		}
	}
}

func (r *reader) loadCells(sheet string, cells []*cellEntry) {
	for _, c := range cells {
		if c.hasFormula {
			continue
		}
		if err := r.book.SetValue(c.Position, c.value(r.sharedStrings)); err != nil {
			r.logger.Warn("fail to set value", "cell", c.Position.String(), "err", err)
		}
	}
	shared := make(map[string]sharedFormula)
	for _, c := range cells {
		if !c.hasFormula {
			continue
		}
		if err := r.loadFormula(c, shared); err != nil {
			r.logger.Warn("formula ignored", "sheet", sheet, "cell", c.Position.String(), "formula", c.formula, "err", err)
			r.book.SetValue(c.Position, c.value(r.sharedStrings))
		}
	}
}

type sharedFormula struct {
	layout.Position
	Formula formula.Formula
}

func (r *reader) loadFormula(c *cellEntry, shared map[string]sharedFormula) error {
	text := strings.ReplaceAll(c.formula, "_xlfn.", "")
	switch c.kind {
	case FormulaArray:
		area := layout.RangeFromString(c.ref).WithSheet(c.Sheet)
		if c.ref == "" {
			area = layout.SingleRange(c.Position)
		}
		return r.book.SetArrayFormula(area, text)
	case FormulaShared:
		if sf, ok := shared[c.index]; ok && text == "" {
			f := sf.Formula.Offset(c.Line-sf.Line, c.Column-sf.Column)
			return r.book.AssignFormula(layout.SingleRange(c.Position), f, false)
		}
		f, err := formula.Parse(text, r.book.Registry())
		if err != nil {
			return err
		}
		if _, ok := shared[c.index]; !ok {
			shared[c.index] = sharedFormula{
				Position: c.Position,
				Formula:  f,
			}
		}
		return r.book.AssignFormula(layout.SingleRange(c.Position), f, false)
	default:
		return r.book.SetFormula(c.Position, text)
	}
}

func (r *reader) readDefinedNames(root xmlWorkbook) {
	if r.invalid() {
		return
	}
	for _, n := range root.Names {
		if strings.HasPrefix(n.Name, "_xlnm.") {
			continue
		}
		var scope string
		if n.LocalSheet != nil {
			ix := *n.LocalSheet
			if ix < 0 || ix >= len(root.Sheets) {
				r.logger.Warn("defined name ignored", "name", n.Name, "err", "invalid sheet index")
				continue
			}
			scope = root.Sheets[ix].Name
		}
		areas, err := parseAreas(n.Value)
		if err == nil {
			err = r.book.DefineName(scope, n.Name, areas...)
		}
		if err != nil {
			r.logger.Warn("defined name ignored", "name", n.Name, "value", n.Value, "err", err)
		}
	}
}

func parseAreas(str string) ([]layout.Range, error) {
	var list []layout.Range
	for _, part := range strings.Split(str, ",") {
		expr, err := parse.ParseFormula(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		var area layout.Range
		switch e := expr.(type) {
		case parse.CellAddr:
			area = e.Range("")
		case parse.RangeAddr:
			area = e.Range("")
		default:
			return nil, fmt.Errorf("%s: not a reference", part)
		}
		if area.Sheet() == "" {
			return nil, fmt.Errorf("%s: reference without sheet", part)
		}
		list = append(list, area)
	}
	return list, nil
}

func (r *reader) readWorkbookLocation() string {
	var root xmlRelations
	if err := r.decodeXML("_rels/.rels", &root); err != nil {
		r.err = err
		return ""
	}
	ix := slices.IndexFunc(root.Relations, func(r xmlRelation) bool {
		return r.Type == typeDocUrl || strings.HasSuffix(r.Type, "relationships/officeDocument")
	})
	if ix < 0 {
		r.err = fmt.Errorf("%w: workbook not found", ErrFile)
		return ""
	}
	return strings.TrimPrefix(root.Relations[ix].Target, "/")
}

func (r *reader) readRelationsForSheets() []xmlRelation {
	var root xmlRelations
	if err := r.decodeXML(r.fromBase("_rels/workbook.xml.rels"), &root); err != nil {
		r.err = err
		return nil
	}
	return slices.DeleteFunc(root.Relations, func(r xmlRelation) bool {
		return r.Type != typeSheetUrl
	})
}

func (r *reader) decodeXML(name string, ptr any) error {
	rs, err := r.openFile(name)
	if err != nil {
		return err
	}
	defer rs.Close()
	if err := xml.NewDecoder(rs).Decode(ptr); err != nil {
		return fmt.Errorf("%w: fail to read data from %s", ErrFile, name)
	}
	return nil
}

func (r *reader) openFile(name string) (io.ReadCloser, error) {
	ix := slices.IndexFunc(r.files, func(f *zip.File) bool {
		return f.Name == name
	})
	if ix < 0 {
		return nil, fmt.Errorf("%w: %s not found", ErrFile, name)
	}
	return r.files[ix].Open()
}

func (r *reader) resolve(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return r.fromBase(target)
}

func (r *reader) fromBase(name string) string {
	return path.Join(r.base, name)
}

func (r *reader) invalid() bool {
	return r.err != nil
}

type cellEntry struct {
	layout.Position
	Type string
	raw  string

	hasFormula bool
	formula    string
	kind       string
	index      string
	ref        string
}

func (c *cellEntry) value(sharedStrings []string) value.ScalarValue {
	switch c.Type {
	case TypeSharedStr:
		n, err := strconv.Atoi(c.raw)
		if err != nil || n < 0 || n >= len(sharedStrings) {
			return value.ErrRef
		}
		return value.Text(sharedStrings[n])
	case TypeInlineStr, TypeFormula, TypeDate:
		return value.Text(c.raw)
	case TypeError:
		if e, ok := value.ParseError(c.raw); ok {
			return e
		}
		return value.ErrValue
	case TypeBool:
		return value.Boolean(c.raw == "1" || strings.EqualFold(c.raw, "true"))
	default:
		if c.raw == "" {
			return value.Empty()
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(c.raw), 64)
		if err != nil {
			return value.Text(c.raw)
		}
		return value.Float(n)
	}
}

type sheetReader struct {
	reader        *sax.Reader
	sheet         string
	sharedStrings []string

	line   int64
	column int64
	locked bool
	cells  []*cellEntry
}

func readSheet(r io.Reader, sheet string, shared []string) *sheetReader {
	return &sheetReader{
		reader:        sax.NewReader(r),
		sheet:         sheet,
		sharedStrings: shared,
	}
}

func (r *sheetReader) Read() error {
	r.reader.Element(sax.LocalName("sheetProtection"), r.onProtection)
	r.reader.Element(sax.LocalName("row"), r.onRow)
	r.reader.Element(sax.LocalName("c"), r.onCell)
	return r.reader.Start()
}

func (r *sheetReader) onProtection(_ *sax.Reader, el sax.E) error {
	r.locked = el.GetAttributeValue("sheet") == "1"
	return nil
}

func (r *sheetReader) onRow(rs *sax.Reader, el sax.E) error {
	r.column = 0
	if str := el.GetAttributeValue("r"); str != "" {
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return err
		}
		r.line = n
	} else {
		r.line++
	}
	return nil
}

func (r *sheetReader) onCell(rs *sax.Reader, el sax.E) error {
	cell := &cellEntry{
		Type: el.GetAttributeValue("t"),
	}
	if addr := el.GetAttributeValue("r"); addr != "" {
		cell.Position = layout.ParsePosition(addr)
	} else {
		cell.Position = layout.Position{
			Line:   r.line,
			Column: r.column + 1,
		}
	}
	cell.Sheet = r.sheet
	r.column = cell.Column
	r.cells = append(r.cells, cell)

	rs.Element(sax.LocalName("v"), func(rs *sax.Reader, _ sax.E) error {
		rs.OnText(func(_ *sax.Reader, str string) error {
			cell.raw = str
			return nil
		})
		return nil
	})
	rs.Element(sax.LocalName("is"), func(rs *sax.Reader, _ sax.E) error {
		rs.Element(sax.LocalName("t"), func(rs *sax.Reader, _ sax.E) error {
			rs.OnText(func(_ *sax.Reader, str string) error {
				cell.raw += str
				return nil
			})
			return nil
		})
		return nil
	})
	rs.Element(sax.LocalName("f"), func(rs *sax.Reader, el sax.E) error {
		return r.onFormula(cell, rs, el)
	})
	return nil
}

func (r *sheetReader) onFormula(cell *cellEntry, rs *sax.Reader, el sax.E) error {
	cell.hasFormula = true
	cell.kind = el.GetAttributeValue("t")
	cell.index = el.GetAttributeValue("si")
	cell.ref = el.GetAttributeValue("ref")
	if cell.kind == "" {
		cell.kind = FormulaNormal
	}
	if el.SelfClosed {
		return nil
	}
	rs.OnText(func(_ *sax.Reader, str string) error {
		cell.formula = str
		return nil
	})
	return nil
}
