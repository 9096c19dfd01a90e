package csv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	quote = '"'
	nl    = '\n'
	cr    = '\r'
	space = ' '
)

var errUnterminated = errors.New("unterminated")

type Reader struct {
	inner         *bufio.Reader
	Comma         byte
	FieldsPerLine int
	TrimSpace     bool

	line  int
	atEOF bool
}

func NewReader(r io.Reader) *Reader {
	rs := Reader{
		inner: bufio.NewReader(r),
		Comma: ',',
	}
	return &rs
}

func (r *Reader) Done() bool {
	return r.atEOF
}

func (r *Reader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rs, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, rs)
	}
	return all, nil
}

func (r *Reader) Read() ([]string, error) {
	if r.Done() {
		return nil, io.EOF
	}
	line, err := r.inner.ReadBytes(nl)
	r.line++
	if len(line) == 0 && errors.Is(err, io.EOF) {
		r.atEOF = true
		return nil, err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	var (
		res  []string
		done bool
		last byte
	)
	for i := 0; i < len(line); {
		var (
			field []byte
			size  int
			err   error
		)
		switch line[i] {
		case cr:
			i++
			if i >= len(line) || line[i] != nl {
				return nil, fmt.Errorf("line %d: carriage return only allowed before newline", r.line)
			}
			done = true
		case nl:
			done = true
		case quote:
			for {
				field, size, err = r.readQuotedField(line[i:])
				if err == nil {
					break
				}
				if !errors.Is(err, errUnterminated) {
					return nil, err
				}
				next, err1 := r.inner.ReadBytes(nl)
				if len(next) == 0 {
					return nil, fmt.Errorf("line %d: unterminated quoted field", r.line)
				}
				if err1 != nil && !errors.Is(err1, io.EOF) {
					return nil, err1
				}
				r.line++
				line = append(line, next...)
			}
		default:
			field, size, err = r.readDefaultField(line[i:])
		}
		if done {
			break
		}
		if err != nil {
			return nil, err
		}
		i += size
		last = 0
		if i < len(line) {
			last = line[i]
		}
		if last != 0 && last != r.Comma && last != cr && last != nl {
			return nil, fmt.Errorf("line %d: unexpected character after field", r.line)
		}
		if last != cr {
			i++
		}
		res = append(res, r.field(field))
	}
	if last == r.Comma {
		res = append(res, "")
	}
	if r.FieldsPerLine > 0 && len(res) != r.FieldsPerLine {
		return nil, fmt.Errorf("line %d: invalid number of fields", r.line)
	}
	return res, nil
}

func (r *Reader) field(str []byte) string {
	if r.TrimSpace {
		return string(bytes.TrimSpace(str))
	}
	return string(str)
}

func (r *Reader) readQuotedField(line []byte) ([]byte, int, error) {
	var (
		pos    = 1
		offset = pos
	)
	for offset < len(line) {
		if line[offset] == quote {
			if offset+1 < len(line) && line[offset+1] == quote {
				offset += 2
				continue
			}
			field := bytes.ReplaceAll(line[pos:offset], []byte{quote, quote}, []byte{quote})
			field = bytes.ReplaceAll(field, []byte{cr, nl}, []byte{nl})
			return field, offset + 1, nil
		}
		offset++
	}
	return nil, 0, errUnterminated
}

func (r *Reader) readDefaultField(line []byte) ([]byte, int, error) {
	var offset int
	for offset < len(line) {
		switch line[offset] {
		case quote:
			return nil, 0, fmt.Errorf("line %d: unexpected quote", r.line)
		case r.Comma, cr, nl:
			return line[:offset], offset, nil
		default:
			offset++
		}
	}
	return line[:offset], offset, nil
}
