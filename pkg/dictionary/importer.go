package dictionary

import (
	"context"
	"fmt"
	"sort"

	"github.com/japaniel/snark/pkg/kana"
	"github.com/japaniel/snark/pkg/lexnet"
	"go.uber.org/zap"
)

// DefaultImportBatch is the number of entries written per transaction.
const DefaultImportBatch = 500

// Updater runs graph writes in a transaction; lexnet.Store implements it.
type Updater interface {
	Update(ctx context.Context, fn func(g *lexnet.Graph) error) error
}

// Importer holds a dictionary indexed by spelling.
type Importer struct {
	entries []JMdictEntry
	// Key: Kanji or Kana text. Read-only after NewImporter.
	index  map[string][]JMdictEntry
	batch  int
	logger *zap.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithBatchSize sets how many entries share a transaction.
func WithBatchSize(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.batch = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ImporterOption {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

// NewImporter creates an importer and builds an in-memory index of the provided dictionary.
func NewImporter(entries []JMdictEntry, opts ...ImporterOption) *Importer {
	idx := make(map[string][]JMdictEntry)
	for _, e := range entries {
		for _, text := range e.Texts() {
			idx[text] = append(idx[text], e)
		}
	}
	im := &Importer{entries: entries, index: idx, batch: DefaultImportBatch, logger: zap.NewNop()}
	for _, o := range opts {
		o(im)
	}
	return im
}

// Len returns the number of entries.
func (im *Importer) Len() int { return len(im.entries) }

// Import writes every entry into the graph: a concept jmdict:<id>, a Word for
// each spelling sensed to it, and one gloss per JMdict gloss. Re-importing is
// a no-op. It returns the number of entries written.
func (im *Importer) Import(ctx context.Context, store Updater) (int, error) {
	count := 0
	for start := 0; start < len(im.entries); start += im.batch {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		end := start + im.batch
		if end > len(im.entries) {
			end = len(im.entries)
		}
		chunk := im.entries[start:end]
		err := store.Update(ctx, func(g *lexnet.Graph) error {
			for _, e := range chunk {
				if err := importEntry(ctx, g, e); err != nil {
					return fmt.Errorf("import entry %s: %w", e.Id, err)
				}
			}
			return nil
		})
		if err != nil {
			return count, err
		}
		count += len(chunk)
		im.logger.Debug("imported dictionary batch", zap.Int("done", count), zap.Int("total", len(im.entries)))
	}
	return count, nil
}

func importEntry(ctx context.Context, g *lexnet.Graph, e JMdictEntry) error {
	concept := e.Concept()
	pos := EntryPOS(e)
	for _, text := range e.Texts() {
		if text == "" {
			continue
		}
		if err := g.AddWord(ctx, text, concept, pos, lexnet.DefaultLang); err != nil {
			return err
		}
	}
	for _, s := range e.Sense {
		for _, gl := range s.Gloss {
			if gl.Text == "" {
				continue
			}
			lang := gl.Lang
			if lang == "" {
				lang = "eng"
			}
			if _, err := g.AddSynsetDef(ctx, concept, gl.Text, pos, lang); err != nil {
				return err
			}
		}
	}
	return nil
}

// Define senses a word seen in text to its dictionary concepts. It returns the
// number of concepts linked.
func (im *Importer) Define(ctx context.Context, g *lexnet.Graph, word, lemma, pronunciation string) (int, error) {
	matches := im.Lookup(word, lemma, pronunciation)
	for _, e := range matches {
		text := lemma
		if text == "" {
			text = word
		}
		if err := g.AddWord(ctx, text, e.Concept(), EntryPOS(e), lexnet.DefaultLang); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

// Lookup finds matching entries for a given word, lemma, and pronunciation,
// ordered by entry id.
func (im *Importer) Lookup(word, lemma, pronunciation string) []JMdictEntry {
	candidates := make(map[string]JMdictEntry) // dedupe by entry id
	for _, term := range []string{word, lemma} {
		if term == "" {
			continue
		}
		for _, e := range im.index[term] {
			candidates[e.Id] = e
		}
	}

	var results []JMdictEntry
	for _, entry := range candidates {
		if isMatch(entry, word, lemma, pronunciation) {
			results = append(results, entry)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Id < results[j].Id
	})
	return results
}

// isMatch requires the entry to spell word or lemma and, when a
// pronunciation is known, to have a kana reading equal to it.
func isMatch(entry JMdictEntry, word, lemma, pronunciation string) bool {
	hasText := false
	for _, text := range entry.Texts() {
		if text == word || text == lemma {
			hasText = true
			break
		}
	}
	if !hasText {
		return false
	}
	if pronunciation == "" {
		return true
	}

	normalizedPron := kana.ToHiragana(pronunciation)
	for _, k := range entry.Kana {
		if kana.ToHiragana(k.Text) == normalizedPron {
			return true
		}
	}
	return false
}
