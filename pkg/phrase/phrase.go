// Package phrase recognises Japanese phrases at the start of a string using a
// table of pattern rows. Each row names a grammatical category, a literal or
// conjugable form, an optional concept and an optional connection pattern the
// preceding text must romanize to.
//
// Categories are keyed on their first rune:
//
//	n  noun            v  verb             a  adjective       r  adverb
//	s  sentence start  p  noun postfix     o  name postfix    w  verb continuation
//	u  verb-final end  t  noun-final end   f  speech ending   e  symbol
//
// The rest of the category string, if any, is the default connection pattern,
// e.g. "pが" only follows text ending in "ga".
package phrase

import (
	"strings"
	"unicode/utf8"

	"github.com/japaniel/snark/pkg/conjugate"
	"github.com/japaniel/snark/pkg/kana"
	"go.uber.org/zap"
)

const (
	CatNoun         = 'n'
	CatVerb         = 'v'
	CatAdjective    = 'a'
	CatAdverb       = 'r'
	CatStart        = 's'
	CatPostfix      = 'p'
	CatNamePostfix  = 'o'
	CatVerbCont     = 'w'
	CatVerbEnd      = 'u'
	CatNounEnd      = 't'
	CatSpeechEnding = 'f'
	CatSymbol       = 'e'
)

// Row is one pattern dictionary entry.
type Row struct {
	Category   string
	Word       string
	Concept    string
	// Connection overrides the connection pattern of a category longer than
	// one rune. It is ignored for a bare category, which always connects.
	Connection string
}

// Kind returns the first rune of the category, or 0 when it is empty.
func (r Row) Kind() rune {
	k, _ := utf8.DecodeRuneInString(r.Category)
	if k == utf8.RuneError {
		return 0
	}
	return k
}

// pattern is the romanized suffix the preceding text must end with. A bare
// one-rune category declares no connection, so it is always "".
func (r Row) pattern() string {
	_, size := utf8.DecodeRuneInString(r.Category)
	if size >= len(r.Category) {
		return ""
	}
	if r.Connection != "" {
		return kana.ToRomaji(r.Connection)
	}
	return kana.ToRomaji(r.Category[size:])
}

// Match is a row recognised at the start of the input. Surface is the text it
// covered, which differs from Row.Word for conjugated verbs and adjectives.
type Match struct {
	Row
	Surface string
	Length  int
}

// Matcher holds an immutable pattern table. It is safe for concurrent use.
type Matcher struct {
	rows    []Row
	symbols []string
	logger  *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used by Parse.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// New builds a Matcher over a copy of rows.
func New(rows []Row, opts ...Option) *Matcher {
	m := &Matcher{
		rows:   append([]Row(nil), rows...),
		logger: zap.NewNop(),
	}
	for _, r := range m.rows {
		if r.Kind() == CatSymbol && r.Word != "" {
			m.symbols = append(m.symbols, r.Word)
		}
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Len returns the number of rows.
func (m *Matcher) Len() int { return len(m.rows) }

// Rows returns a copy of the table.
func (m *Matcher) Rows() []Row {
	return append([]Row(nil), m.rows...)
}

// admits reports whether a row of category kind may follow a phrase of
// category pret.
func admits(pret string, kind rune) bool {
	if pret == "" || kind == 0 {
		return true
	}
	prev := pret[0]
	if prev == CatVerb && kind != CatVerbCont && kind != CatSymbol && kind != CatNoun {
		return false
	}
	switch kind {
	case CatVerbCont:
		return prev == CatVerb
	case CatNounEnd, CatPostfix:
		return prev == CatNoun
	}
	return true
}

// startsWithSymbol reports whether s begins with the word of some symbol row.
func (m *Matcher) startsWithSymbol(s string) bool {
	for _, w := range m.symbols {
		if strings.HasPrefix(s, w) {
			return true
		}
	}
	return false
}

// surface returns the form of r to look for at the start of s. Verb and
// adjective roots are conjugated against s; when no inflection fits, the root
// itself is tried.
func surface(r Row, s string) (form string, ok bool) {
	switch r.Kind() {
	case CatVerb:
		w, found := conjugate.ExpandVerb(s, r.Word)
		if !found {
			return r.Word, true
		}
		// The next character must continue the inflection, not start a
		// longer non-conjugating word.
		if len(w) < len(s) {
			if next, _ := utf8.DecodeRuneInString(s[len(w):]); !kana.IsHiragana(next) {
				return "", false
			}
		}
		return w, true
	case CatAdjective:
		if w, found := conjugate.ExpandAdjective(s, r.Word); found {
			return w, true
		}
	}
	return r.Word, true
}

// Phrases returns the rows that can start s given the preceding phrase's
// surface pre and category pret. The longest match so far is moved to the
// front as it is found; every other match keeps table order.
func (m *Matcher) Phrases(s, pre, pret string) []Match {
	pre = kana.ToRomaji(pre)
	longest := 0
	var matches []Match
	for _, r := range m.rows {
		if !admits(pret, r.Kind()) {
			continue
		}
		form, ok := surface(r, s)
		if !ok || form == "" || !strings.HasPrefix(s, form) {
			continue
		}
		if pat := r.pattern(); pre != "" && pat != "" && !strings.HasSuffix(pre, pat) {
			continue
		}
		if r.Kind() == CatSpeechEnding && !m.startsWithSymbol(s[len(form):]) {
			continue
		}

		match := Match{Row: r, Surface: form, Length: utf8.RuneCountInString(form)}
		if match.Length > longest {
			longest = match.Length
			matches = append([]Match{match}, matches...)
		} else {
			matches = append(matches, match)
		}
	}
	return matches
}
