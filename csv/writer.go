package csv

import (
	"bufio"
	"io"
	"strings"
)

// Writer writes records with the quoting rules of the Reader: a field is
// quoted when it contains the separator, a quote, a line break or when it
// starts or ends with a space.
type Writer struct {
	inner *bufio.Writer

	ForceQuote bool
	UseCRLF    bool
	Comma      byte
}

func NewWriter(w io.Writer) *Writer {
	ws := Writer{
		inner: bufio.NewWriter(w),
		Comma: ',',
	}
	return &ws
}

func (w *Writer) WriteAll(data [][]string) error {
	for _, d := range data {
		if err := w.Write(d); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Write(line []string) error {
	for i, str := range line {
		if i > 0 {
			w.inner.WriteByte(w.Comma)
		}
		if w.needQuotes(str) {
			str = w.quote(str)
		}
		if _, err := w.inner.WriteString(str); err != nil {
			return err
		}
	}
	if w.UseCRLF {
		w.inner.WriteByte(cr)
	}
	return w.inner.WriteByte(nl)
}

func (w *Writer) Flush() error {
	return w.inner.Flush()
}

func (w *Writer) quote(str string) string {
	var eol = "\n"
	if w.UseCRLF {
		eol = "\r\n"
	}
	str = strings.ReplaceAll(str, "\r\n", "\n")
	str = strings.ReplaceAll(str, "\r", "")
	str = strings.ReplaceAll(str, "\n", eol)
	str = strings.ReplaceAll(str, `"`, `""`)
	return `"` + str + `"`
}

func (w *Writer) needQuotes(str string) bool {
	if w.ForceQuote {
		return true
	}
	if str == "" {
		return false
	}
	if str[0] == space || str[len(str)-1] == space {
		return true
	}
	return strings.ContainsAny(str, string([]byte{w.Comma, cr, nl, quote}))
}
