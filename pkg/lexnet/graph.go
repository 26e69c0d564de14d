package lexnet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyKey is returned when an operation is given an empty natural key
// (lemma, concept name or link label) it cannot create an entity for.
var ErrEmptyKey = errors.New("lexnet: empty key")

// maxIDDraws bounds the id redraw loop, so a constant IDSource that keeps
// colliding fails instead of spinning forever.
const maxIDDraws = 1000

// IDSource draws candidate word ids. Candidates already in use are redrawn.
type IDSource func() int64

// ReadingFunc returns the hiragana pronunciation for a lemma, or "".
type ReadingFunc func(lemma string) string

// TimeIDs is the default IDSource: unix seconds * 100 plus a random offset
// in [0, 100].
func TimeIDs() int64 {
	return time.Now().Unix()*100 + rand.Int63n(101)
}

// Graph runs graph operations against a DBExecutor without committing.
// Use Store.Update for one-transaction-per-operation semantics, or Store.Bind
// to compose operations inside an existing transaction.
type Graph struct {
	ex       DBExecutor
	ids      IDSource
	readings ReadingFunc
	src      string
	logger   *zap.Logger
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (g *Graph) newWordID(ctx context.Context) (int64, error) {
	for i := 0; i < maxIDDraws; i++ {
		id := g.ids()
		var one int
		err := g.ex.QueryRowContext(ctx, `SELECT 1 FROM word WHERE wordid = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return id, nil
		}
		if err != nil {
			return 0, fmt.Errorf("check word id: %w", err)
		}
	}
	return 0, fmt.Errorf("no free word id after %d draws", maxIDDraws)
}

func (g *Graph) newSynsetID(ctx context.Context, pos string) (string, error) {
	for i := 0; i < maxIDDraws; i++ {
		id := strconv.FormatInt(g.ids(), 10) + "-" + pos
		_, ok, err := g.Synset(ctx, id)
		if err != nil {
			return "", err
		}
		if !ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free synset id after %d draws", maxIDDraws)
}

// ensureWord returns the live Word for (lemma, lang), inserting it if absent.
func (g *Graph) ensureWord(ctx context.Context, lemma, pos, lang string) (Word, bool, error) {
	for i := 0; i < maxIDDraws; i++ {
		w, ok, err := g.wordByLemma(ctx, lemma, lang)
		if err != nil || ok {
			return w, false, err
		}
		id, err := g.newWordID(ctx)
		if err != nil {
			return Word{}, false, err
		}
		w = Word{ID: id, Lang: lang, Lemma: lemma, POS: pos}
		if g.readings != nil {
			w.Pron = g.readings(lemma)
		}
		res, err := g.ex.ExecContext(ctx,
			`INSERT INTO word (wordid, lang, lemma, pron, pos) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			w.ID, w.Lang, w.Lemma, nullable(w.Pron), w.POS)
		if err != nil {
			return Word{}, false, fmt.Errorf("insert word %s: %w", lemma, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			g.logger.Debug("created word", zap.String("lemma", lemma), zap.Int64("wordid", id))
			return w, true, nil
		}
		// Lost a race on the lemma or the id; look again.
	}
	return Word{}, false, fmt.Errorf("could not create word %s", lemma)
}

// ensureSynset returns the live Synset named name, inserting it if absent.
// An empty name creates an anonymous concept named after its own id.
func (g *Graph) ensureSynset(ctx context.Context, name, pos string) (Synset, bool, error) {
	for i := 0; i < maxIDDraws; i++ {
		if name != "" {
			s, ok, err := g.synsetByName(ctx, name)
			if err != nil || ok {
				return s, false, err
			}
		}
		id, err := g.newSynsetID(ctx, pos)
		if err != nil {
			return Synset{}, false, err
		}
		s := Synset{ID: id, POS: pos, Name: orDefault(name, id), Src: g.src}
		res, err := g.ex.ExecContext(ctx,
			`INSERT INTO synset (synset, pos, name, src) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			s.ID, s.POS, s.Name, s.Src)
		if err != nil {
			return Synset{}, false, fmt.Errorf("insert synset %s: %w", s.Name, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			g.logger.Debug("created synset", zap.String("name", s.Name), zap.String("synset", s.ID))
			return s, true, nil
		}
	}
	return Synset{}, false, fmt.Errorf("could not create synset %s", name)
}

// AddWord ensures a Word for (lemma, lang), a SynSet named synset (or lemma
// when synset is empty), and exactly one Sense between them. pos and lang
// default to "n" and "jpn".
func (g *Graph) AddWord(ctx context.Context, lemma, synset, pos, lang string) error {
	if lemma == "" {
		return ErrEmptyKey
	}
	pos = orDefault(pos, DefaultPOS)
	lang = orDefault(lang, DefaultLang)

	w, _, err := g.ensureWord(ctx, lemma, pos, lang)
	if err != nil {
		return err
	}
	s, _, err := g.ensureSynset(ctx, orDefault(synset, lemma), pos)
	if err != nil {
		return err
	}
	_, err = g.ex.ExecContext(ctx,
		`INSERT INTO sense (synset, wordid, lang, src) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		s.ID, w.ID, lang, g.src)
	if err != nil {
		return fmt.Errorf("insert sense %s/%s: %w", lemma, s.Name, err)
	}
	return nil
}

// DeleteWord removes the Words (and their Senses) for lemma in lang, and
// separately every SynSet whose name is lemma together with its Senses, its
// SynSetDefs in lang and every SynLink touching it.
func (g *Graph) DeleteWord(ctx context.Context, lemma, lang string) error {
	lang = orDefault(lang, DefaultLang)

	wids, err := g.collectInt64(ctx, `SELECT wordid FROM word WHERE lemma = ? AND lang = ?`, lemma, lang)
	if err != nil {
		return err
	}
	for _, id := range wids {
		if _, err := g.ex.ExecContext(ctx, `DELETE FROM word WHERE wordid = ?`, id); err != nil {
			return fmt.Errorf("delete word %d: %w", id, err)
		}
		if _, err := g.ex.ExecContext(ctx, `DELETE FROM sense WHERE wordid = ?`, id); err != nil {
			return fmt.Errorf("delete senses of word %d: %w", id, err)
		}
	}

	sids, err := g.collectStrings(ctx, `SELECT synset FROM synset WHERE name = ?`, lemma)
	if err != nil {
		return err
	}
	for _, id := range sids {
		if err := g.deleteSynset(ctx, id, lang); err != nil {
			return err
		}
	}
	if len(wids) > 0 || len(sids) > 0 {
		g.logger.Debug("deleted word", zap.String("lemma", lemma), zap.Int("words", len(wids)), zap.Int("synsets", len(sids)))
	}
	return nil
}

func (g *Graph) deleteSynset(ctx context.Context, id, lang string) error {
	stmts := []struct {
		query string
		args  []interface{}
	}{
		{`DELETE FROM synset WHERE synset = ?`, []interface{}{id}},
		{`DELETE FROM sense WHERE synset = ?`, []interface{}{id}},
		{`DELETE FROM synset_def WHERE synset = ? AND lang = ?`, []interface{}{id, lang}},
		{`DELETE FROM synlink WHERE synset1 = ? OR synset2 = ?`, []interface{}{id, id}},
	}
	for _, st := range stmts {
		if _, err := g.ex.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("delete synset %s: %w", id, err)
		}
	}
	return nil
}

// AddSynsetDef ensures the concept synset exists (anonymous when empty) and
// attaches gloss to it once. It returns the concept's resolved name, which
// callers must use for further links when synset was empty.
func (g *Graph) AddSynsetDef(ctx context.Context, synset, gloss, pos, lang string) (string, error) {
	pos = orDefault(pos, DefaultPOS)
	lang = orDefault(lang, DefaultLang)

	s, _, err := g.ensureSynset(ctx, synset, pos)
	if err != nil {
		return "", err
	}
	_, err = g.ex.ExecContext(ctx,
		`INSERT INTO synset_def (synset, lang, def, sid) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		s.ID, lang, gloss, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("insert synset_def for %s: %w", s.Name, err)
	}
	return s.Name, nil
}

// DeleteSynsetDef removes every gloss equal to gloss in lang, whatever
// concept owns it.
func (g *Graph) DeleteSynsetDef(ctx context.Context, gloss, lang string) error {
	lang = orDefault(lang, DefaultLang)
	if _, err := g.ex.ExecContext(ctx, `DELETE FROM synset_def WHERE def = ? AND lang = ?`, gloss, lang); err != nil {
		return fmt.Errorf("delete synset_def: %w", err)
	}
	return nil
}

// AddSynLink ensures both concepts exist, creating missing ones with the
// given pos hints, then ensures the (synset1, link, synset2) edge.
func (g *Graph) AddSynLink(ctx context.Context, synset1, pos1, synset2, pos2, link string) error {
	if synset1 == "" || synset2 == "" || link == "" {
		return ErrEmptyKey
	}
	s1, _, err := g.ensureSynset(ctx, synset1, orDefault(pos1, DefaultPOS))
	if err != nil {
		return err
	}
	s2, _, err := g.ensureSynset(ctx, synset2, orDefault(pos2, DefaultPOS))
	if err != nil {
		return err
	}
	_, err = g.ex.ExecContext(ctx,
		`INSERT INTO synlink (synset1, synset2, link, sid) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		s1.ID, s2.ID, link, uuid.NewString())
	if err != nil {
		return fmt.Errorf("insert synlink %s %s %s: %w", synset1, link, synset2, err)
	}
	return nil
}

// AddFrame records frame as a sub-topic of prev.
func (g *Graph) AddFrame(ctx context.Context, prev, frame string) error {
	return g.AddSynLink(ctx, prev, posFrame, frame, posFrame, LinkFrame)
}

// AddPhrase stores phrase as a new anonymous sentence concept and, when prev
// is set, chains it after prev with a "next" link. It returns the new
// concept's name. Unlike the other adds it is not idempotent: recording the
// same sentence twice yields two concepts.
func (g *Graph) AddPhrase(ctx context.Context, prev, phrase string) (string, error) {
	name, err := g.AddSynsetDef(ctx, "", phrase, posSentence, DefaultLang)
	if err != nil {
		return "", err
	}
	if prev != "" {
		if err := g.AddSynLink(ctx, prev, posSentence, name, posSentence, LinkNext); err != nil {
			return "", err
		}
	}
	return name, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (g *Graph) collectInt64(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (g *Graph) collectStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
