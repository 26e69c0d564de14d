// Package conjugate expands verb and adjective dictionary roots into the
// surface inflection observed in running text.
//
// Each table maps the final syllable of a dictionary root to an ordered list
// of endings. Expansion picks the FIRST ending in table order whose
// stem+ending is a prefix of the observed text, not the longest one.
package conjugate

import (
	"strings"
	"unicode/utf8"
)

// Kind selects the inflection table.
type Kind int

const (
	Verb Kind = iota
	Adjective
)

func (k Kind) String() string {
	switch k {
	case Verb:
		return "verb"
	case Adjective:
		return "adjective"
	}
	return "unknown"
}

// verbEndings holds the godan rows: five vowel-row endings followed by the
// fused past forms. る roots may also be ichidan, so they additionally take
// よ, た, て and the bare stem.
var verbEndings = map[rune][]string{
	'う': {"わ", "い", "う", "え", "お", "った", "って"}, // 会う
	'く': {"か", "き", "く", "け", "こ", "いた", "いて"}, // 書く
	'ぐ': {"が", "ぎ", "ぐ", "げ", "ご", "いだ", "いで"}, // 泳ぐ
	'す': {"さ", "し", "す", "せ", "そ", "した", "して"}, // 指す
	'つ': {"た", "ち", "つ", "て", "と", "った", "って"}, // 勝つ
	'ぬ': {"な", "に", "ぬ", "ね", "の", "んだ", "んで"}, // 死ぬ
	'ぶ': {"ば", "び", "ぶ", "べ", "ぼ", "んだ", "んで"}, // 尊ぶ
	'む': {"ま", "み", "む", "め", "も", "んだ", "んで"}, // 噛む
	'る': {"ら", "り", "る", "れ", "ろ", "よ", "った", "って", "た", "て", ""}, // 得る, 探る
}

var adjectiveEndings = map[rune][]string{
	'い': {"い", "な", "かった", "く", "そう", "くて", "くない", "ければ"}, // 楽しい
}

func table(kind Kind) map[rune][]string {
	switch kind {
	case Verb:
		return verbEndings
	case Adjective:
		return adjectiveEndings
	}
	return nil
}

// Endings returns a copy of the ordered endings registered for a root ending
// in final. It returns nil for finals the table does not know.
func Endings(kind Kind, final rune) []string {
	e, ok := table(kind)[final]
	if !ok {
		return nil
	}
	out := make([]string, len(e))
	copy(out, e)
	return out
}

// Finals lists the final syllables handled for kind.
func Finals(kind Kind) []rune {
	t := table(kind)
	out := make([]rune, 0, len(t))
	for r := range t {
		out = append(out, r)
	}
	return out
}

// Expand returns the inflected surface form of root that begins observed.
// The boolean is false when root's final syllable has no table or when no
// ending produces a prefix of observed.
func Expand(kind Kind, observed, root string) (string, bool) {
	final, size := utf8.DecodeLastRuneInString(root)
	if size == 0 {
		return "", false
	}
	endings, ok := table(kind)[final]
	if !ok {
		return "", false
	}
	stem := root[:len(root)-size]
	for _, e := range endings {
		form := stem + e
		if strings.HasPrefix(observed, form) {
			return form, true
		}
	}
	return "", false
}

// ExpandVerb is Expand for the verb table.
func ExpandVerb(observed, root string) (string, bool) {
	return Expand(Verb, observed, root)
}

// ExpandAdjective is Expand for the i-adjective table.
func ExpandAdjective(observed, root string) (string, bool) {
	return Expand(Adjective, observed, root)
}
