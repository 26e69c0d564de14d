package lexnet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	wordColumns   = `wordid, lang, lemma, pron, pos`
	synsetColumns = `synset, pos, name, src`
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWord(sc scanner) (Word, error) {
	var w Word
	var lang, pron, pos sql.NullString
	if err := sc.Scan(&w.ID, &lang, &w.Lemma, &pron, &pos); err != nil {
		return Word{}, err
	}
	w.Lang = lang.String
	w.Pron = pron.String
	w.POS = pos.String
	return w, nil
}

func scanSynset(sc scanner) (Synset, error) {
	var s Synset
	var pos, name, src sql.NullString
	if err := sc.Scan(&s.ID, &pos, &name, &src); err != nil {
		return Synset{}, err
	}
	s.POS = pos.String
	s.Name = name.String
	s.Src = src.String
	return s, nil
}

func (g *Graph) queryWords(ctx context.Context, query string, args ...interface{}) ([]Word, error) {
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()
	var out []Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (g *Graph) querySynsets(ctx context.Context, query string, args ...interface{}) ([]Synset, error) {
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query synsets: %w", err)
	}
	defer rows.Close()
	var out []Synset
	for rows.Next() {
		s, err := scanSynset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (g *Graph) wordByLemma(ctx context.Context, lemma, lang string) (Word, bool, error) {
	row := g.ex.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM word WHERE lemma = ? AND lang = ?`, lemma, lang)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, false, nil
	}
	if err != nil {
		return Word{}, false, fmt.Errorf("find word %s: %w", lemma, err)
	}
	return w, true, nil
}

func (g *Graph) synsetByName(ctx context.Context, name string) (Synset, bool, error) {
	row := g.ex.QueryRowContext(ctx, `SELECT `+synsetColumns+` FROM synset WHERE name = ?`, name)
	s, err := scanSynset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Synset{}, false, nil
	}
	if err != nil {
		return Synset{}, false, fmt.Errorf("find synset %s: %w", name, err)
	}
	return s, true, nil
}

// Words returns the Words spelled lemma in any language, optionally narrowed
// to one part of speech.
func (g *Graph) Words(ctx context.Context, lemma, pos string) ([]Word, error) {
	if pos == "" {
		return g.queryWords(ctx, `SELECT `+wordColumns+` FROM word WHERE lemma = ? ORDER BY rowid`, lemma)
	}
	return g.queryWords(ctx, `SELECT `+wordColumns+` FROM word WHERE lemma = ? AND pos = ? ORDER BY rowid`, lemma, pos)
}

// Word returns the Word with the given id.
func (g *Graph) Word(ctx context.Context, id int64) (Word, bool, error) {
	w, err := scanWord(g.ex.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM word WHERE wordid = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, false, nil
	}
	if err != nil {
		return Word{}, false, fmt.Errorf("get word %d: %w", id, err)
	}
	return w, true, nil
}

// Synset returns the concept with the given id.
func (g *Graph) Synset(ctx context.Context, id string) (Synset, bool, error) {
	s, err := scanSynset(g.ex.QueryRowContext(ctx, `SELECT `+synsetColumns+` FROM synset WHERE synset = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Synset{}, false, nil
	}
	if err != nil {
		return Synset{}, false, fmt.Errorf("get synset %s: %w", id, err)
	}
	return s, true, nil
}

// SynsetsByName returns the concepts named name. The unique index on name
// keeps this to at most one row.
func (g *Graph) SynsetsByName(ctx context.Context, name string) ([]Synset, error) {
	return g.querySynsets(ctx, `SELECT `+synsetColumns+` FROM synset WHERE name = ? ORDER BY rowid`, name)
}

// WordsBySense returns the Words linked to s through a Sense.
func (g *Graph) WordsBySense(ctx context.Context, s Synset) ([]Word, error) {
	return g.queryWords(ctx, `SELECT w.wordid, w.lang, w.lemma, w.pron, w.pos
		FROM sense se JOIN word w ON w.wordid = se.wordid
		WHERE se.synset = ? ORDER BY se.rowid`, s.ID)
}

// Synsets returns the concepts w expresses.
func (g *Graph) Synsets(ctx context.Context, w Word) ([]Synset, error) {
	return g.querySynsets(ctx, `SELECT s.synset, s.pos, s.name, s.src
		FROM sense se JOIN synset s ON s.synset = se.synset
		WHERE se.wordid = ? ORDER BY se.rowid`, w.ID)
}

// Senses returns the Sense rows of a word.
func (g *Graph) Senses(ctx context.Context, wordID int64) ([]Sense, error) {
	rows, err := g.ex.QueryContext(ctx,
		`SELECT synset, wordid, lang, rank, lexid, freq, src FROM sense WHERE wordid = ? ORDER BY rowid`, wordID)
	if err != nil {
		return nil, fmt.Errorf("query senses: %w", err)
	}
	defer rows.Close()
	var out []Sense
	for rows.Next() {
		var se Sense
		var lang, rank, src sql.NullString
		var lexid, freq sql.NullInt64
		if err := rows.Scan(&se.Synset, &se.WordID, &lang, &rank, &lexid, &freq, &src); err != nil {
			return nil, err
		}
		se.Lang, se.Rank, se.Src = lang.String, rank.String, src.String
		se.LexID, se.Freq = lexid.Int64, freq.Int64
		out = append(out, se)
	}
	return out, rows.Err()
}

// SynsetDefs returns the glosses of s in lang.
func (g *Graph) SynsetDefs(ctx context.Context, s Synset, lang string) ([]SynsetDef, error) {
	rows, err := g.ex.QueryContext(ctx,
		`SELECT synset, lang, def, sid FROM synset_def WHERE synset = ? AND lang = ? ORDER BY rowid`,
		s.ID, orDefault(lang, DefaultLang))
	if err != nil {
		return nil, fmt.Errorf("query synset_def: %w", err)
	}
	defer rows.Close()
	var out []SynsetDef
	for rows.Next() {
		d := SynsetDef{Name: s.Name}
		var dlang, def, sid sql.NullString
		if err := rows.Scan(&d.Synset, &dlang, &def, &sid); err != nil {
			return nil, err
		}
		d.Lang, d.Gloss, d.SID = dlang.String, def.String, sid.String
		out = append(out, d)
	}
	return out, rows.Err()
}

func (g *Graph) querySynLinks(ctx context.Context, query string, args ...interface{}) ([]SynLink, error) {
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query synlink: %w", err)
	}
	defer rows.Close()
	var out []SynLink
	for rows.Next() {
		var l SynLink
		var sid sql.NullString
		if err := rows.Scan(&l.Synset1, &l.Synset2, &l.Link, &sid); err != nil {
			return nil, err
		}
		l.SID = sid.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// SynLinks returns the edges leaving s, optionally only those labeled link.
func (g *Graph) SynLinks(ctx context.Context, s Synset, link string) ([]SynLink, error) {
	if link == "" {
		return g.querySynLinks(ctx, `SELECT synset1, synset2, link, sid FROM synlink WHERE synset1 = ? ORDER BY rowid`, s.ID)
	}
	return g.querySynLinks(ctx, `SELECT synset1, synset2, link, sid FROM synlink WHERE synset1 = ? AND link = ? ORDER BY rowid`, s.ID, link)
}

// SynLinksTo returns the edges arriving at s. Traversals never call it: a
// relation with no forward edge has not been learned yet.
func (g *Graph) SynLinksTo(ctx context.Context, s Synset, link string) ([]SynLink, error) {
	if link == "" {
		return g.querySynLinks(ctx, `SELECT synset1, synset2, link, sid FROM synlink WHERE synset2 = ? ORDER BY rowid`, s.ID)
	}
	return g.querySynLinks(ctx, `SELECT synset1, synset2, link, sid FROM synlink WHERE synset2 = ? AND link = ? ORDER BY rowid`, s.ID, link)
}

// SameWords returns, for every concept lemma expresses, the other words that
// express it too.
func (g *Graph) SameWords(ctx context.Context, lemma string) ([]WordSynset, error) {
	rows, err := g.ex.QueryContext(ctx, `SELECT w2.lemma, s.name
		FROM word w1
		JOIN sense se1 ON se1.wordid = w1.wordid
		JOIN sense se2 ON se2.synset = se1.synset AND se2.wordid <> se1.wordid
		JOIN word w2 ON w2.wordid = se2.wordid
		JOIN synset s ON s.synset = se1.synset
		WHERE w1.lemma = ?
		ORDER BY se1.rowid, se2.rowid`, lemma)
	if err != nil {
		return nil, fmt.Errorf("query same words: %w", err)
	}
	defer rows.Close()
	var out []WordSynset
	for rows.Next() {
		var ws WordSynset
		var name sql.NullString
		if err := rows.Scan(&ws.Lemma, &name); err != nil {
			return nil, err
		}
		ws.Synset = name.String
		out = append(out, ws)
	}
	return out, rows.Err()
}

// PatternRows projects the graph into phrase dictionary rows: one row per
// Sense (category = concept pos, word = lemma) followed by one row per gloss
// (word = gloss text), both restricted to lang. Recorded sentences are not
// patterns, so glosses of "s" concepts are left out.
func (g *Graph) PatternRows(ctx context.Context, lang string) ([]PatternRow, error) {
	lang = orDefault(lang, DefaultLang)
	rows, err := g.ex.QueryContext(ctx, `SELECT s.pos, w.lemma, s.name, 0 AS part, se.rowid AS ord
		FROM sense se
		JOIN word w ON w.wordid = se.wordid
		JOIN synset s ON s.synset = se.synset
		WHERE w.lang = ?
		UNION ALL
		SELECT s.pos, d.def, s.name, 1 AS part, d.rowid AS ord
		FROM synset_def d
		JOIN synset s ON s.synset = d.synset
		WHERE d.lang = ? AND s.pos <> ?
		ORDER BY part, ord`, lang, lang, posSentence)
	if err != nil {
		return nil, fmt.Errorf("query pattern rows: %w", err)
	}
	defer rows.Close()
	var out []PatternRow
	for rows.Next() {
		var pos, word, name sql.NullString
		var part, ord int64
		if err := rows.Scan(&pos, &word, &name, &part, &ord); err != nil {
			return nil, err
		}
		out = append(out, PatternRow{Category: pos.String, Word: word.String, Concept: name.String})
	}
	return out, rows.Err()
}
