// Package kana holds the hiragana tables used to compare phonetic
// continuity between a phrase match and the text before it.
package kana

import "strings"

// romaji maps each hiragana character to its romanized syllable.
// Small kana carry an "x" prefix, ん is "nn" and っ is "tt".
var romaji = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'さ': "sa", 'し': "si", 'す': "su", 'せ': "se", 'そ': "so",
	'た': "ta", 'ち': "ti", 'つ': "tu", 'て': "te", 'と': "to",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "hu", 'へ': "he", 'ほ': "ho",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'を': "wo", 'ん': "nn",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'ざ': "za", 'じ': "zi", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'だ': "da", 'ぢ': "di", 'づ': "du", 'で': "de", 'ど': "do",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ゃ': "xya", 'ゅ': "xyu", 'ょ': "xyo", 'っ': "tt",
	'ぁ': "xa", 'ぃ': "xi", 'ぅ': "xu", 'ぇ': "xe", 'ぉ': "xo",
}

// ToRomaji romanizes every hiragana character of s. Characters outside the
// table (kanji, katakana, ASCII, punctuation) are copied unchanged.
func ToRomaji(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if syl, ok := romaji[r]; ok {
			b.WriteString(syl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsHiragana reports whether r is one of the romanizable hiragana characters.
func IsHiragana(r rune) bool {
	_, ok := romaji[r]
	return ok
}

// Romaji returns the syllable for a single hiragana character.
func Romaji(r rune) (string, bool) {
	syl, ok := romaji[r]
	return syl, ok
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
