// Package wildcard implements the patterns accepted by criteria and text
// search functions: '*' matches any sequence of characters, '?' matches a
// single character and '~' turns the next '*', '?' or '~' into a literal.
// Matching ignores case.
package wildcard

import (
	"unicode"
	"unicode/utf8"
)

const MaxPatternLength = 255

type tokenKind int8

const (
	tokChar tokenKind = iota
	tokAny
	tokStar
)

type token struct {
	kind tokenKind
	char rune
}

func compile(pattern string) ([]token, bool) {
	if utf8.RuneCountInString(pattern) > MaxPatternLength {
		return nil, false
	}
	var (
		list []token
		str  = []rune(pattern)
	)
	for i := 0; i < len(str); i++ {
		switch c := str[i]; c {
		case '*':
			if n := len(list); n > 0 && list[n-1].kind == tokStar {
				continue
			}
			list = append(list, token{kind: tokStar})
		case '?':
			list = append(list, token{kind: tokAny})
		case '~':
			if i+1 >= len(str) {
				continue
			}
			if next := str[i+1]; next == '*' || next == '?' || next == '~' {
				i++
				list = append(list, token{kind: tokChar, char: next})
				continue
			}
			list = append(list, token{kind: tokChar, char: c})
		default:
			list = append(list, token{kind: tokChar, char: c})
		}
	}
	return list, true
}

// Search returns the offset, in characters, of the first position of text
// where a part of text matches pattern, or -1 when there is none.
func Search(text, pattern string) int {
	list, ok := compile(pattern)
	if !ok {
		return -1
	}
	if len(list) == 0 {
		return 0
	}
	m := newMachine(list)
	return m.search([]rune(text))
}

// Matches reports whether pattern matches the whole text.
func Matches(pattern, text string) bool {
	list, ok := compile(pattern)
	if !ok {
		return false
	}
	m := newMachine(list)
	return m.matches([]rune(text))
}

const none = -1

// machine simulates the pattern automaton over the text. States are
// positions in the pattern; for each state it keeps the smallest offset of
// text where a thread reaching this state started, so that the run stays
// linear in the length of the text.
type machine struct {
	list []token
	curr []int
	next []int
}

func newMachine(list []token) *machine {
	m := machine{
		list: list,
		curr: make([]int, len(list)+1),
		next: make([]int, len(list)+1),
	}
	return &m
}

func (m *machine) reset(states []int) {
	for i := range states {
		states[i] = none
	}
}

func (m *machine) enter(states []int, state, start int) {
	for {
		if states[state] != none && states[state] <= start {
			return
		}
		states[state] = start
		if state >= len(m.list) || m.list[state].kind != tokStar {
			return
		}
		state++
	}
}

func (m *machine) step(char rune) {
	m.reset(m.next)
	for state, start := range m.curr {
		if start == none || state >= len(m.list) {
			continue
		}
		tok := m.list[state]
		switch tok.kind {
		case tokStar:
			m.enter(m.next, state, start)
		case tokAny:
			m.enter(m.next, state+1, start)
		case tokChar:
			if equalFold(tok.char, char) {
				m.enter(m.next, state+1, start)
			}
		}
	}
	m.curr, m.next = m.next, m.curr
}

func (m *machine) accepted() int {
	return m.curr[len(m.list)]
}

func (m *machine) search(text []rune) int {
	m.reset(m.curr)
	best := none
	for i := 0; ; i++ {
		if best == none {
			m.enter(m.curr, 0, i)
		}
		if s := m.accepted(); s != none && (best == none || s < best) {
			best = s
		}
		if i >= len(text) || !m.alive(best) {
			break
		}
		m.step(text[i])
	}
	return best
}

func (m *machine) matches(text []rune) bool {
	m.reset(m.curr)
	m.enter(m.curr, 0, 0)
	for _, c := range text {
		m.step(c)
		if !m.alive(none) {
			return false
		}
	}
	return m.accepted() != none
}

// alive reports whether a thread that started before limit can still make
// progress.
func (m *machine) alive(limit int) bool {
	for _, start := range m.curr {
		if start == none {
			continue
		}
		if limit == none || start < limit {
			return true
		}
	}
	return false
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}
