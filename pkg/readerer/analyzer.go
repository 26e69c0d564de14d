// Package readerer turns web pages into analysed Japanese sentences: it
// fetches and extracts article text and tokenizes it with kagome.
package readerer

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/japaniel/snark/pkg/kana"
)

// Version returns the current version of the package.
func Version() string { return "0.2.0" }

// Token represents a single analyzed unit of text.
type Token struct {
	Surface       string   // The text as it appears (e.g. "行っ")
	BaseForm      string   // The dictionary form (e.g. "行く")
	Reading       string   // The pronunciation (katakana, e.g. "イッ")
	PartsOfSpeech []string // e.g. ["動詞", "自立", "*", "*"] (Kagome POS labels)
	// PrimaryPOS stores the first (primary) part of speech if available.
	PrimaryPOS string
}

// categories maps IPA primary parts of speech to phrase categories.
var categories = map[string]string{
	"名詞":  "n",
	"動詞":  "v",
	"形容詞": "a",
	"副詞":  "r",
	"接続詞": "s",
	"感動詞": "s",
	"助詞":  "p",
	"助動詞": "w",
	"記号":  "e",
}

// Category returns the phrase category for the token's primary part of
// speech, or "" when there is none.
func (t Token) Category() string {
	return categories[t.PrimaryPOS]
}

// Sentence represents a sentence containing tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Analyzer handles text segmentation.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) ([]Token, error) {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0-3 POS and sub-POS, 4 conjugation type,
		// 5 conjugation form, 6 base form, 7 reading, 8 pronunciation.
		features := token.Features()
		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:       token.Surface,
			BaseForm:      base,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primaryPOS,
		})
	}
	return result, nil
}

// AnalyzeDocument splits the text into sentences and tokenizes each sentence.
func (a *Analyzer) AnalyzeDocument(text string) ([]Sentence, error) {
	var result []Sentence
	for _, s := range SplitSentences(text) {
		tokens, err := a.Analyze(s)
		if err != nil {
			return nil, err
		}
		result = append(result, Sentence{Text: s, Tokens: tokens})
	}
	return result, nil
}

// Reading returns the hiragana reading of word, or "" if any part of it has
// no known reading.
func (a *Analyzer) Reading(word string) string {
	tokens, err := a.Analyze(word)
	if err != nil || len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		if t.Reading == "" {
			return ""
		}
		b.WriteString(kana.ToHiragana(t.Reading))
	}
	return b.String()
}
