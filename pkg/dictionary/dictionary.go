// Package dictionary loads JMdict (jmdict-simplified JSON) and imports its
// entries into the lexical graph as concepts with English glosses.
package dictionary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	Id    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// Concept is the graph concept name of the entry.
func (e JMdictEntry) Concept() string {
	return "jmdict:" + e.Id
}

// Texts returns every kanji and kana spelling, kanji first.
func (e JMdictEntry) Texts() []string {
	out := make([]string, 0, len(e.Kanji)+len(e.Kana))
	for _, k := range e.Kanji {
		out = append(out, k.Text)
	}
	for _, k := range e.Kana {
		out = append(out, k.Text)
	}
	return out
}

// Decode reads jmdict-simplified JSON, either the release object
// {"words": [...]} or a bare array of entries.
func Decode(r io.Reader) ([]JMdictEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Words []JMdictEntry `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Words) > 0 {
		return wrapped.Words, nil
	}
	var entries []JMdictEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	return entries, nil
}

// LoadJMdictSimplified reads a jmdict-simplified JSON file.
func LoadJMdictSimplified(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
