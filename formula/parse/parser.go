package parse

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/value"
)

var ErrSyntax = errors.New("syntax error")

// Error reports where and why a formula could not be parsed.
type Error struct {
	Position
	Context string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("(%s) %s: %s", e.Context, e.Position, e.Message)
}

func (e *Error) Unwrap() error {
	return ErrSyntax
}

type Parser struct {
	scan *Scanner
	curr Token
	peek Token

	grammar *Grammar
}

// ParseFormula parses the text of a formula. The leading equal sign is
// optional.
func ParseFormula(str string) (Expr, error) {
	return NewParser(FormulaGrammar()).ParseString(str)
}

func NewParser(g *Grammar) *Parser {
	return &Parser{
		grammar: g,
	}
}

func (p *Parser) ParseString(str string) (Expr, error) {
	return p.Parse(strings.NewReader(str))
}

func (p *Parser) Parse(r io.Reader) (Expr, error) {
	if err := p.Init(r); err != nil {
		return nil, err
	}
	return p.parseFormula()
}

func (p *Parser) Init(r io.Reader) error {
	scan, err := Scan(r)
	if err != nil {
		return err
	}
	p.scan = scan
	p.next()
	p.next()
	return nil
}

func (p *Parser) parseFormula() (Expr, error) {
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.makeError("unexpected token " + p.curr.String())
	}
	return expr, nil
}

func (p *Parser) parse(pow int) (Expr, error) {
	fn, err := p.prefix()
	if err != nil {
		return nil, err
	}
	left, err := fn(p)
	if err != nil {
		return nil, err
	}
	for {
		fn, err := p.postfix()
		if err != nil {
			break
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	for !p.done() && pow < p.pow(p.curr.Type) {
		fn, err := p.infix()
		if err != nil {
			return nil, err
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *Parser) done() bool {
	return p.is(op.EOF)
}

func (p *Parser) is(kind op.Op) bool {
	return p.curr.Type == kind
}

func (p *Parser) currentLiteral() string {
	return p.curr.Literal
}

func (p *Parser) pow(kind op.Op) int {
	return p.grammar.Pow(kind)
}

func (p *Parser) prefix() (PrefixFunc, error) {
	return p.grammar.Prefix(p.curr)
}

func (p *Parser) postfix() (InfixFunc, error) {
	return p.grammar.Postfix(p.curr)
}

func (p *Parser) infix() (InfixFunc, error) {
	return p.grammar.Infix(p.curr)
}

func (p *Parser) makeError(msg string) error {
	return p.grammar.makeError(p.curr, msg)
}

func parseCall(p *Parser) (Expr, error) {
	name := p.currentLiteral()
	p.next()
	p.next()
	var args []Expr
	for !p.done() && !p.is(op.EndGrp) {
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		switch p.curr.Type {
		case op.Comma:
			p.next()
			if p.is(op.EndGrp) {
				return nil, p.makeError("argument expected after comma")
			}
		case op.EndGrp:
		default:
			return nil, p.makeError("unexpected character in function call")
		}
		args = append(args, arg)
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of function call")
	}
	p.next()
	return NewCall(name, args), nil
}

func parseBinary(p *Parser, left Expr) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(p.pow(oper))
	if err != nil {
		return nil, err
	}
	return NewBinary(left, right, oper), nil
}

func parseUnary(p *Parser) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(powUnary)
	if err != nil {
		return nil, err
	}
	return NewUnary(right, oper), nil
}

func parsePercent(p *Parser, expr Expr) (Expr, error) {
	expr = NewPostfix(expr, p.curr.Type)
	p.next()
	return expr, nil
}

func parseGroup(p *Parser) (Expr, error) {
	p.next()
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of expression")
	}
	p.next()
	return NewGroup(expr), nil
}

func parseNumber(p *Parser) (Expr, error) {
	x, err := strconv.ParseFloat(p.currentLiteral(), 64)
	if err != nil {
		return nil, p.makeError("invalid number " + p.currentLiteral())
	}
	p.next()
	return NewNumber(x), nil
}

func parseLiteral(p *Parser) (Expr, error) {
	defer p.next()
	return NewLiteral(p.currentLiteral()), nil
}

func parseErrorLiteral(p *Parser) (Expr, error) {
	err, ok := value.ParseError(p.currentLiteral())
	if !ok {
		return nil, p.makeError("unknown error value " + p.currentLiteral())
	}
	p.next()
	return NewErrorLit(err), nil
}

func parseIdentifier(p *Parser) (Expr, error) {
	lit := p.currentLiteral()
	switch p.peek.Type {
	case op.SheetRef:
		return parseQualified(p, lit)
	case op.BegGrp:
		return parseCall(p)
	default:
	}
	p.next()
	switch {
	case strings.EqualFold(lit, "TRUE"):
		return NewBoolean(true), nil
	case strings.EqualFold(lit, "FALSE"):
		return NewBoolean(false), nil
	default:
		return NewName("", lit), nil
	}
}

func parseAddress(p *Parser) (Expr, error) {
	lit := p.currentLiteral()
	switch p.peek.Type {
	case op.SheetRef:
		return parseQualified(p, lit)
	case op.BegGrp:
		return parseCall(p)
	default:
	}
	addr, err := parseCellAddr(lit)
	if err != nil {
		return nil, p.makeError(err.Error())
	}
	p.next()
	return addr, nil
}

func parseQuotedSheet(p *Parser) (Expr, error) {
	if p.peek.Type != op.SheetRef {
		return nil, p.makeError("'!' expected after sheet name")
	}
	return parseQualified(p, p.currentLiteral())
}

func parseQualified(p *Parser, sheet string) (Expr, error) {
	if sheet == "" {
		return nil, p.makeError("empty sheet name")
	}
	p.next()
	p.next()
	switch p.curr.Type {
	case op.Cell:
		addr, err := parseCellAddr(p.currentLiteral())
		if err != nil {
			return nil, p.makeError(err.Error())
		}
		addr.Sheet = sheet
		p.next()
		return addr, nil
	case op.Ident:
		if p.peek.Type == op.BegGrp {
			return nil, p.makeError("function can not be qualified by a sheet")
		}
		name := NewName(sheet, p.currentLiteral())
		p.next()
		return name, nil
	default:
		return nil, p.makeError("reference expected after sheet name")
	}
}

func parseRangeAddress(p *Parser, left Expr) (Expr, error) {
	start, ok := left.(CellAddr)
	if !ok {
		return nil, p.makeError("range: address expected before ':'")
	}
	p.next()

	var sheet string
	if p.peek.Type == op.SheetRef {
		if !p.is(op.Cell) && !p.is(op.Ident) && !p.is(op.Sheet) {
			return nil, p.makeError("range: sheet name expected")
		}
		sheet = p.currentLiteral()
		p.next()
		p.next()
		if sheet != start.Sheet {
			return nil, p.makeError("range: both ends should be on the same sheet")
		}
	}
	if !p.is(op.Cell) {
		return nil, p.makeError("range: address expected after ':'")
	}
	end, err := parseCellAddr(p.currentLiteral())
	if err != nil {
		return nil, p.makeError(err.Error())
	}
	p.next()
	return NewRangeAddr(start, end), nil
}

func parseArray(p *Parser) (Expr, error) {
	p.next()
	var (
		rows [][]value.ScalarValue
		row  []value.ScalarValue
	)
	for done := false; !done; {
		v, err := parseArrayItem(p)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
		switch p.curr.Type {
		case op.Comma:
		case op.Semi:
			rows = append(rows, row)
			row = nil
		case op.EndArr:
			rows = append(rows, row)
			done = true
		default:
			return nil, p.makeError("unexpected token in array " + p.curr.String())
		}
		p.next()
	}
	for i := range rows {
		if len(rows[i]) != len(rows[0]) {
			return nil, p.makeError("array: all rows should have the same number of columns")
		}
	}
	return NewArrayLit(value.NewArray(rows)), nil
}

func parseArrayItem(p *Parser) (value.ScalarValue, error) {
	var neg bool
	if p.is(op.Sub) || p.is(op.Add) {
		neg = p.is(op.Sub)
		p.next()
		if !p.is(op.Number) {
			return nil, p.makeError("array: number expected after sign")
		}
	}
	defer p.next()
	switch lit := p.currentLiteral(); p.curr.Type {
	case op.Number:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.makeError("invalid number " + lit)
		}
		if neg {
			f = -f
		}
		return value.Float(f), nil
	case op.Literal:
		return value.Text(lit), nil
	case op.Error:
		err, ok := value.ParseError(lit)
		if !ok {
			return nil, p.makeError("unknown error value " + lit)
		}
		return err, nil
	case op.Ident:
		switch {
		case strings.EqualFold(lit, "TRUE"):
			return value.Boolean(true), nil
		case strings.EqualFold(lit, "FALSE"):
			return value.Boolean(false), nil
		}
		return nil, p.makeError("array: constant expected instead of " + lit)
	default:
		return nil, p.makeError("array: constant expected")
	}
}
