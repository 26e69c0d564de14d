// Package lexnet is a small lexical semantic network persisted in SQLite:
// words, concepts (synsets), concept glosses, typed concept links and the
// senses joining words to concepts.
//
// Every mutating Store method commits its statements in a single
// transaction. Creation goes through the natural-key unique indexes with
// INSERT ... ON CONFLICT DO NOTHING, so concurrent identical adds converge on
// one row. Lookups of missing keys return empty results, never errors.
package lexnet

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Store owns the graph database.
type Store struct {
	db       *sql.DB
	ids      IDSource
	readings ReadingFunc
	src      string
	logger   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDSource replaces the time-based word id generator.
func WithIDSource(ids IDSource) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithReadings fills Word.pron for newly created words.
func WithReadings(fn ReadingFunc) Option {
	return func(s *Store) { s.readings = fn }
}

// WithSource sets the provenance tag written to synset.src and sense.src.
func WithSource(src string) Option {
	return func(s *Store) {
		if src != "" {
			s.src = src
		}
	}
}

// Open opens (creating if needed) the SQLite database at path and applies the
// schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if isMemory(path) {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	s, err := New(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database and applies the schema.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:     db,
		ids:    TimeIDs,
		src:    DefaultSrc,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if err := InitDB(ctx, db); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying database, e.g. for batch writers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Bind returns the graph operations running against ex. Nothing is committed
// on the caller's behalf.
func (s *Store) Bind(ex DBExecutor) *Graph {
	return &Graph{ex: ex, ids: s.ids, readings: s.readings, src: s.src, logger: s.logger}
}

// View returns a Graph reading straight from the database.
func (s *Store) View() *Graph {
	return s.Bind(s.db)
}

// Update runs fn in one transaction and commits it if fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(g *Graph) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()
	if err := fn(s.Bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// AddWord: see Graph.AddWord.
func (s *Store) AddWord(ctx context.Context, lemma, synset, pos, lang string) error {
	return s.Update(ctx, func(g *Graph) error {
		return g.AddWord(ctx, lemma, synset, pos, lang)
	})
}

// DeleteWord: see Graph.DeleteWord.
func (s *Store) DeleteWord(ctx context.Context, lemma, lang string) error {
	return s.Update(ctx, func(g *Graph) error {
		return g.DeleteWord(ctx, lemma, lang)
	})
}

// AddSynsetDef: see Graph.AddSynsetDef.
func (s *Store) AddSynsetDef(ctx context.Context, synset, gloss, pos, lang string) (string, error) {
	var name string
	err := s.Update(ctx, func(g *Graph) error {
		var err error
		name, err = g.AddSynsetDef(ctx, synset, gloss, pos, lang)
		return err
	})
	return name, err
}

// DeleteSynsetDef: see Graph.DeleteSynsetDef.
func (s *Store) DeleteSynsetDef(ctx context.Context, gloss, lang string) error {
	return s.Update(ctx, func(g *Graph) error {
		return g.DeleteSynsetDef(ctx, gloss, lang)
	})
}

// AddSynLink: see Graph.AddSynLink.
func (s *Store) AddSynLink(ctx context.Context, synset1, pos1, synset2, pos2, link string) error {
	return s.Update(ctx, func(g *Graph) error {
		return g.AddSynLink(ctx, synset1, pos1, synset2, pos2, link)
	})
}

// AddFrame: see Graph.AddFrame.
func (s *Store) AddFrame(ctx context.Context, prev, frame string) error {
	return s.Update(ctx, func(g *Graph) error {
		return g.AddFrame(ctx, prev, frame)
	})
}

// AddPhrase: see Graph.AddPhrase.
func (s *Store) AddPhrase(ctx context.Context, prev, phrase string) (string, error) {
	var name string
	err := s.Update(ctx, func(g *Graph) error {
		var err error
		name, err = g.AddPhrase(ctx, prev, phrase)
		return err
	})
	return name, err
}

func (s *Store) WordInfoByLemma(ctx context.Context, lemma string) ([]Info, error) {
	return s.View().WordInfoByLemma(ctx, lemma)
}

func (s *Store) WordLinkInfoByLemma(ctx context.Context, lemma string) ([]Info, error) {
	return s.View().WordLinkInfoByLemma(ctx, lemma)
}

func (s *Store) SynLinkInfoByName(ctx context.Context, name string) ([]Info, error) {
	return s.View().SynLinkInfoByName(ctx, name)
}

func (s *Store) SynLinkNextByName(ctx context.Context, name string) ([]Info, error) {
	return s.View().SynLinkNextByName(ctx, name)
}

func (s *Store) ImagenetURIs(ctx context.Context, lemma string) ([]string, error) {
	return s.View().ImagenetURIs(ctx, lemma)
}

func (s *Store) PatternRows(ctx context.Context, lang string) ([]PatternRow, error) {
	return s.View().PatternRows(ctx, lang)
}
