package main

import (
	"github.com/japaniel/snark/pkg/phrase"
	"github.com/japaniel/snark/pkg/readerer"
)

// seedRows turns analyzed tokens into pattern rows, one per distinct
// (category, word). Verbs and adjectives are keyed on their base form so the
// matcher conjugates them; nouns carry their base form as concept. Tokens
// without a known category are skipped.
func seedRows(sentences []readerer.Sentence) []phrase.Row {
	type key struct{ cat, word string }
	seen := make(map[key]bool)
	var rows []phrase.Row
	for _, s := range sentences {
		for _, tok := range s.Tokens {
			cat := tok.Category()
			if cat == "" {
				continue
			}
			row := phrase.Row{Category: cat, Word: tok.Surface}
			switch cat {
			case string(phrase.CatVerb), string(phrase.CatAdjective):
				row.Word = tok.BaseForm
			case string(phrase.CatNoun):
				row.Concept = tok.BaseForm
			}
			k := key{row.Category, row.Word}
			if row.Word == "" || seen[k] {
				continue
			}
			seen[k] = true
			rows = append(rows, row)
		}
	}
	return rows
}
