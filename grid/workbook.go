package grid

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/formula/eval"
	"github.com/midbel/sheetcalc/formula/graph"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var (
	ErrSheetExists   = errors.New("sheet already exists")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrArrayGroup    = errors.New("cell belongs to an array formula")
	ErrLock          = errors.New("sheet locked")
	ErrName          = errors.New("invalid name")
)

type Option func(*Workbook)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Workbook) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithLocale(locale value.Locale) Option {
	return func(b *Workbook) {
		b.locale = locale
	}
}

func WithRegistry(registry *builtins.Registry) Option {
	return func(b *Workbook) {
		if registry != nil {
			b.registry = registry
		}
	}
}

type nameKey struct {
	Scope string
	Ident string
}

func makeNameKey(scope, ident string) nameKey {
	return nameKey{
		Scope: scope,
		Ident: strings.ToUpper(ident),
	}
}

// Workbook holds the sheets, their literal values and formulas, and the
// named ranges. Formulas are computed lazily when their value is read.
type Workbook struct {
	sheets   []*Sheet
	names    map[nameKey][]layout.Range
	locale   value.Locale
	registry *builtins.Registry
	graph    *graph.Graph
	logger   *slog.Logger
}

func NewWorkbook(options ...Option) *Workbook {
	b := Workbook{
		names:    make(map[nameKey][]layout.Range),
		locale:   value.DefaultLocale(),
		registry: builtins.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range options {
		o(&b)
	}
	b.graph = graph.New(graph.ResolverFunc(b.context), graph.WithLogger(b.logger))
	return &b
}

func (b *Workbook) Locale() value.Locale {
	return b.locale
}

func (b *Workbook) Logger() *slog.Logger {
	return b.logger
}

func (b *Workbook) Registry() *builtins.Registry {
	return b.registry
}

func (b *Workbook) Sheet(name string) (*Sheet, error) {
	sh := b.sheet(name)
	if sh == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	return sh, nil
}

func (b *Workbook) sheet(name string) *Sheet {
	ix := slices.IndexFunc(b.sheets, func(s *Sheet) bool {
		return s.name == name
	})
	if ix < 0 {
		return nil
	}
	return b.sheets[ix]
}

func (b *Workbook) Sheets() []*Sheet {
	return slices.Clone(b.sheets)
}

func (b *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := checkSheetName(name); err != nil {
		return nil, err
	}
	if _, err := b.Sheet(name); err == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrSheetExists)
	}
	sh := createSheet(name, b)
	sh.Index = len(b.sheets) + 1
	b.sheets = append(b.sheets, sh)

	b.graph.SheetAdded(name)
	b.logger.Debug("sheet added", "sheet", name)
	return sh, nil
}

// RemoveSheet deletes the sheet with its cells and its local names.
// Formulas of other sheets referencing it read #REF! until a sheet with the
// same name is added again.
func (b *Workbook) RemoveSheet(name string) error {
	if _, err := b.Sheet(name); err != nil {
		return err
	}
	b.sheets = slices.DeleteFunc(b.sheets, func(s *Sheet) bool {
		return s.name == name
	})
	for i := range b.sheets {
		b.sheets[i].Index = i + 1
	}
	var idents []string
	for k := range b.names {
		if k.Scope == name {
			delete(b.names, k)
			idents = append(idents, k.Ident)
		}
	}
	b.graph.SheetRemoved(name)
	for _, ident := range idents {
		b.graph.NameChanged(ident)
	}
	b.logger.Debug("sheet removed", "sheet", name)
	return nil
}

// RenameSheet renames the sheet and rewrites the references using its former
// name in formulas and named ranges.
func (b *Workbook) RenameSheet(old, name string) error {
	sh, err := b.Sheet(old)
	if err != nil {
		return err
	}
	if old == name {
		return nil
	}
	if err := checkSheetName(name); err != nil {
		return err
	}
	if _, err := b.Sheet(name); err == nil {
		return fmt.Errorf("%s: %w", name, ErrSheetExists)
	}
	sh.name = name

	names := make(map[nameKey][]layout.Range)
	for k, list := range b.names {
		if k.Scope == old {
			k.Scope = name
		}
		for i := range list {
			if list[i].Sheet() == old {
				list[i] = list[i].WithSheet(name)
			}
		}
		names[k] = list
	}
	b.names = names
	b.graph.SheetRenamed(old, name)
	b.logger.Debug("sheet renamed", "sheet", old, "name", name)
	return nil
}

// SetValue stores a literal value in the cell at the given position,
// replacing the formula it holds if any.
func (b *Workbook) SetValue(pos layout.Position, v value.ScalarValue) error {
	sh, err := b.Sheet(pos.Sheet)
	if err != nil {
		return err
	}
	if err := b.clear(layout.SingleRange(pos)); err != nil {
		return err
	}
	sh.set(pos, v)
	return nil
}

// SetInput interprets the given text as a user would type it: a formula if
// it starts with an equal sign, a number, a logical, an error token or a
// text otherwise.
func (b *Workbook) SetInput(pos layout.Position, str string) error {
	if strings.HasPrefix(str, "=") && len(str) > 1 {
		return b.SetFormula(pos, str)
	}
	return b.SetValue(pos, ParseInput(str, b.locale))
}

// SetFormula parses and assigns the formula to the cell at the given
// position. On a parse failure the cell is left unchanged.
func (b *Workbook) SetFormula(pos layout.Position, text string) error {
	f, err := formula.Parse(text, b.registry)
	if err != nil {
		return err
	}
	return b.setFormula(layout.SingleRange(pos), f, false)
}

// SetArrayFormula assigns the formula to every cell of the area. The result
// of the formula is spilled over the cells of the area.
func (b *Workbook) SetArrayFormula(area layout.Range, text string) error {
	f, err := formula.Parse(text, b.registry)
	if err != nil {
		return err
	}
	return b.setFormula(area, f, true)
}

// AssignFormula attaches an already parsed formula to the area. A formula
// set in a single cell is given with a one cell area and array set to false.
func (b *Workbook) AssignFormula(area layout.Range, f formula.Formula, array bool) error {
	if !f.Valid() {
		return fmt.Errorf("%s: invalid formula", area)
	}
	return b.setFormula(area, f, array)
}

func (b *Workbook) setFormula(area layout.Range, f formula.Formula, array bool) error {
	sh, err := b.Sheet(area.Sheet())
	if err != nil {
		return err
	}
	if _, err := b.graph.Set(area, f, array); err != nil {
		return fmt.Errorf("%w: %w", ErrArrayGroup, err)
	}
	for pos := range area.Positions() {
		sh.set(pos, nil)
	}
	return nil
}

// Clear removes the content of every cell of the area.
func (b *Workbook) Clear(area layout.Range) error {
	sh, err := b.Sheet(area.Sheet())
	if err != nil {
		return err
	}
	if err := b.clear(area); err != nil {
		return err
	}
	for pos := range area.Positions() {
		sh.set(pos, nil)
	}
	return nil
}

func (b *Workbook) clear(area layout.Range) error {
	if err := b.graph.Clear(area); err != nil {
		return fmt.Errorf("%w: %w", ErrArrayGroup, err)
	}
	return nil
}

// Value gives the value of the cell at the given position, computing it
// first if it holds a dirty formula.
func (b *Workbook) Value(pos layout.Position) value.ScalarValue {
	if v, ok := b.graph.Value(pos); ok {
		return v
	}
	return b.literal(pos)
}

// CachedValue gives the value of the cell at the given position without
// computing it.
func (b *Workbook) CachedValue(pos layout.Position) value.ScalarValue {
	if v, ok := b.graph.Cached(pos); ok {
		return v
	}
	return b.literal(pos)
}

// Recalculate marks dirty the volatile formulas and the formulas reading
// them. Their values are computed again on the next read.
func (b *Workbook) Recalculate() {
	b.graph.Recalculate()
}

func (b *Workbook) IsDirty(pos layout.Position) bool {
	return b.graph.IsDirty(pos)
}

// Formula gives the text of the formula of the cell at the given position,
// as regenerated after the edits of the workbook.
func (b *Workbook) Formula(pos layout.Position) (string, bool) {
	n, ok := b.graph.Node(pos)
	if !ok {
		return "", false
	}
	return n.Formula.String(), true
}

// Content gives the formula text or the literal value stored in the cell.
func (b *Workbook) Content(pos layout.Position) string {
	if str, ok := b.Formula(pos); ok {
		return str
	}
	v := b.literal(pos)
	if t, ok := v.(value.Text); ok {
		return string(t)
	}
	if f, ok := v.(value.Float); ok {
		return b.locale.FormatNumber(float64(f))
	}
	return v.String()
}

func (b *Workbook) literal(pos layout.Position) value.ScalarValue {
	sh := b.sheet(pos.Sheet)
	if sh == nil {
		return value.Empty()
	}
	v, ok := sh.literal(pos)
	if !ok {
		return value.Empty()
	}
	return v
}

func (b *Workbook) InsertRows(sheet string, at, count int64) error {
	return b.apply(layout.Edit{Kind: layout.InsertRows, Sheet: sheet, At: at, Count: count})
}

func (b *Workbook) DeleteRows(sheet string, at, count int64) error {
	return b.apply(layout.Edit{Kind: layout.DeleteRows, Sheet: sheet, At: at, Count: count})
}

func (b *Workbook) InsertColumns(sheet string, at, count int64) error {
	return b.apply(layout.Edit{Kind: layout.InsertColumns, Sheet: sheet, At: at, Count: count})
}

func (b *Workbook) DeleteColumns(sheet string, at, count int64) error {
	return b.apply(layout.Edit{Kind: layout.DeleteColumns, Sheet: sheet, At: at, Count: count})
}

func (b *Workbook) apply(edit layout.Edit) error {
	sh, err := b.Sheet(edit.Sheet)
	if err != nil {
		return err
	}
	if sh.IsLock() {
		return fmt.Errorf("%s: %w", edit.Sheet, ErrLock)
	}
	if edit.At < 1 || edit.Count < 1 {
		return fmt.Errorf("%s: invalid position or count", edit)
	}
	if err := b.graph.NotifyStructuralEdit(edit); err != nil {
		return fmt.Errorf("%w: %w", ErrArrayGroup, err)
	}
	sh.shift(edit)

	var changed []string
	for k, list := range b.names {
		var (
			areas []layout.Range
			moved bool
		)
		for _, a := range list {
			x, ok := edit.ShiftRange(a)
			if ok {
				areas = append(areas, x)
			}
			moved = moved || !ok || x != a
		}
		if !moved {
			continue
		}
		b.names[k] = areas
		changed = append(changed, k.Ident)
	}
	for _, ident := range changed {
		b.graph.NameChanged(ident)
	}
	b.logger.Debug("structural edit applied", "kind", edit.Kind.String(), "sheet", edit.Sheet, "at", edit.At, "count", edit.Count)
	return nil
}

// DefineName defines a named range. An empty scope defines the name for the
// whole workbook, otherwise the name is local to the sheet given as scope
// and shadows a workbook name with the same identifier.
func (b *Workbook) DefineName(scope, ident string, areas ...layout.Range) error {
	if err := checkName(ident); err != nil {
		return err
	}
	areas = slices.Clone(areas)
	if scope != "" {
		if _, err := b.Sheet(scope); err != nil {
			return err
		}
	}
	for i := range areas {
		if areas[i].Sheet() == "" {
			if scope == "" {
				return fmt.Errorf("%s: area without sheet", ident)
			}
			areas[i] = areas[i].WithSheet(scope)
		}
	}
	b.names[makeNameKey(scope, ident)] = areas
	b.graph.NameChanged(ident)
	return nil
}

func (b *Workbook) RemoveName(scope, ident string) {
	delete(b.names, makeNameKey(scope, ident))
	b.graph.NameChanged(ident)
}

func (b *Workbook) lookupName(sheet, ident string) ([]layout.Range, bool) {
	if list, ok := b.names[makeNameKey(sheet, ident)]; ok && sheet != "" {
		return list, len(list) > 0
	}
	list, ok := b.names[makeNameKey("", ident)]
	return list, ok && len(list) > 0
}

// Evaluate computes the formula text as if it was set in the cell at the
// given position, without storing it.
func (b *Workbook) Evaluate(anchor layout.Position, text string) (value.ScalarValue, error) {
	f, err := formula.Parse(text, b.registry)
	if err != nil {
		return nil, err
	}
	return f.Evaluate(b.context(anchor)), nil
}

// EvaluateArray computes the formula text as an array formula set in the
// given area, without storing it.
func (b *Workbook) EvaluateArray(area layout.Range, text string) (value.Array, error) {
	f, err := formula.Parse(text, b.registry)
	if err != nil {
		return value.Array{}, err
	}
	return f.EvaluateArray(b.context(area.Starts), area.Dimension()), nil
}

// PrecedentAreas gives the areas read by the formula text when set in the
// given sheet. Named ranges are resolved; identical areas are given once.
func (b *Workbook) PrecedentAreas(sheet, text string) ([]layout.Range, error) {
	expr, err := parse.ParseFormula(text)
	if err != nil {
		return nil, err
	}
	var (
		list []layout.Range
		seen = make(map[layout.Range]struct{})
	)
	add := func(a layout.Range) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		list = append(list, a)
	}
	for _, p := range parse.Precedents(expr) {
		if !p.IsName() {
			add(p.Range(sheet))
			continue
		}
		scope := p.Name.Sheet
		if scope == "" {
			scope = sheet
		}
		areas, _ := b.lookupName(scope, p.Name.Ident)
		for _, a := range areas {
			add(a)
		}
	}
	return list, nil
}

type ObjectKind int8

const (
	ObjectCell ObjectKind = 1 << iota
	ObjectName
)

// Object is a cell or a named range read by a formula.
type Object struct {
	Kind  ObjectKind
	Cell  layout.Position
	Scope string
	Name  string
}

func (o Object) String() string {
	if o.Kind == ObjectName {
		if o.Scope == "" {
			return o.Name
		}
		return layout.QuoteSheet(o.Scope) + "!" + o.Name
	}
	return o.Cell.String()
}

// PrecedentObjects gives the cells and the named ranges read by the formula
// text when set in the given sheet. Areas are expanded to their cells.
func (b *Workbook) PrecedentObjects(sheet, text string) ([]Object, error) {
	expr, err := parse.ParseFormula(text)
	if err != nil {
		return nil, err
	}
	var (
		list []Object
		seen = make(map[Object]struct{})
	)
	add := func(o Object) {
		if _, ok := seen[o]; ok {
			return
		}
		seen[o] = struct{}{}
		list = append(list, o)
	}
	for _, p := range parse.Precedents(expr) {
		if p.IsName() {
			add(b.nameObject(sheet, p.Name))
			continue
		}
		for pos := range p.Range(sheet).Positions() {
			add(Object{
				Kind: ObjectCell,
				Cell: pos,
			})
		}
	}
	return list, nil
}

func (b *Workbook) nameObject(sheet string, name parse.Name) Object {
	obj := Object{
		Kind: ObjectName,
		Name: strings.ToUpper(name.Ident),
	}
	scope := name.Sheet
	if scope == "" {
		scope = sheet
	}
	if _, ok := b.names[makeNameKey(scope, name.Ident)]; ok && scope != "" {
		obj.Scope = scope
	}
	return obj
}

func (b *Workbook) context(anchor layout.Position) eval.Context {
	return cellContext{
		book:   b,
		anchor: anchor,
	}
}

func checkSheetName(name string) error {
	if name == "" || len(name) > 31 {
		return fmt.Errorf("%q: %w", name, ErrName)
	}
	if strings.ContainsAny(name, "[]:*?/\\") {
		return fmt.Errorf("%q: %w", name, ErrName)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%q: %w", name, ErrName)
	}
	return nil
}

func checkName(ident string) error {
	if ident == "" || layout.IsAddress(ident) {
		return fmt.Errorf("%q: %w", ident, ErrName)
	}
	if strings.EqualFold(ident, "TRUE") || strings.EqualFold(ident, "FALSE") {
		return fmt.Errorf("%q: %w", ident, ErrName)
	}
	for i, c := range ident {
		ok := c == '_' || c == '\\' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if i > 0 {
			ok = ok || c == '.' || (c >= '0' && c <= '9')
		}
		if !ok {
			return fmt.Errorf("%q: %w", ident, ErrName)
		}
	}
	return nil
}
