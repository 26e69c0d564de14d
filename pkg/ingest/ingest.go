// Package ingest records documents in the lexical graph. Each sentence is
// segmented by the phrase matcher on a worker pool; the results are written
// back in sentence order, chaining the sentences with "next" links under a
// frame for the document and sensing recognised nouns to their concepts.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/japaniel/snark/pkg/dictionary"
	"github.com/japaniel/snark/pkg/lexnet"
	"github.com/japaniel/snark/pkg/phrase"
	"go.uber.org/zap"
)

// DefaultRoot is the frame every ingested document hangs off.
const DefaultRoot = "source"

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Store is the part of lexnet.Store the ingester needs.
type Store interface {
	Updater
	AddFrame(ctx context.Context, prev, frame string) error
}

// Ingester handles the ingestion of sentences into the graph.
type Ingester struct {
	Store   Store
	Matcher *phrase.Matcher
	// Dict, if set, senses nouns without a concept to their JMdict entries.
	Dict *dictionary.Importer
	// Root is the frame documents are filed under.
	Root      string
	BatchSize int
	Logger    *zap.Logger
	// OnProgress is called periodically with the number of processed sentences and total sentences.
	OnProgress func(current, total int)

	// Concurrency settings
	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(store Store, m *phrase.Matcher) *Ingester {
	return &Ingester{
		Store:     store,
		Matcher:   m,
		Root:      DefaultRoot,
		BatchSize: 50,
		Workers:   4,
		Logger:    zap.NewNop(),
	}
}

// link is one word to sense to a concept.
type link struct {
	Lemma   string
	Concept string
	POS     string
}

// processedSentence holds the result of processing a sentence before it is written.
type processedSentence struct {
	Index    int
	Sentence string
	Parsed   bool
	Links    []link
}

// Ingest records sentences as a "next" chain starting at the frame title and
// senses every recognised noun phrase. It returns the number of word links
// written.
func (ig *Ingester) Ingest(ctx context.Context, title string, sentences []string) (int, error) {
	if title == "" {
		return 0, lexnet.ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(sentences) == 0 {
		return 0, nil
	}
	logger := ig.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	root := ig.Root
	if root == "" {
		root = DefaultRoot
	}
	workers := ig.Workers
	if workers <= 0 {
		workers = 1
	}
	if err := ig.Store.AddFrame(ctx, root, title); err != nil {
		return 0, fmt.Errorf("file document %s: %w", title, err)
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	resultCh := make(chan processedSentence, workers*2)
	doneCh := make(chan error, 1)

	var totalLinks int64
	var unparsed int64

	bw := NewBatchWriter(ig.Store, ig.BatchSize, 100*time.Millisecond)
	// Capture first error seen in batch writer
	var batchErr error
	var batchErrMu sync.Mutex
	bw.OnError = func(e error) {
		batchErrMu.Lock()
		if batchErr == nil {
			batchErr = e
		}
		batchErrMu.Unlock()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var closeOnce sync.Once
	shutdown := func() {
		closeOnce.Do(func() {
			wp.Close()
			close(resultCh)
		})
	}
	defer func() {
		shutdown()
		_ = bw.Close()
	}()

	wp.Start(ctx)

	// The consumer owns prev; write callbacks run one at a time in
	// submission order, so each one sees the previous sentence's name.
	prev := title
	write := func(item processedSentence) error {
		return bw.Submit(func(ctx context.Context, g *lexnet.Graph) error {
			name, err := g.AddPhrase(ctx, prev, item.Sentence)
			if err != nil {
				return fmt.Errorf("record sentence %d: %w", item.Index, err)
			}
			prev = name
			for _, l := range item.Links {
				if err := g.AddWord(ctx, l.Lemma, l.Concept, l.POS, ""); err != nil {
					return fmt.Errorf("link %s to %s: %w", l.Lemma, l.Concept, err)
				}
				atomic.AddInt64(&totalLinks, 1)
			}
			return nil
		})
	}

	go func() {
		defer close(doneCh)
		buffer := make(map[int]processedSentence)
		nextIdx := 0
		batch := ig.BatchSize
		if batch <= 0 {
			batch = 1
		}

		for res := range resultCh {
			buffer[res.Index] = res
			for {
				item, ok := buffer[nextIdx]
				if !ok {
					break
				}
				delete(buffer, nextIdx)
				if err := write(item); err != nil {
					// Stop producers so they do not block on resultCh.
					cancel()
					doneCh <- err
					return
				}
				nextIdx++
				if ig.OnProgress != nil && nextIdx%batch == 0 {
					ig.OnProgress(nextIdx, len(sentences))
				}
			}
		}
		if err := ctx.Err(); err != nil && nextIdx < len(sentences) {
			doneCh <- err
			return
		}
		if ig.OnProgress != nil {
			ig.OnProgress(nextIdx, len(sentences))
		}
		doneCh <- nil
	}()

	var submitErr error
Loop:
	for i, sent := range sentences {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx, text := i, sent
		job := func(ctx context.Context) error {
			res := ig.processSentence(idx, text)
			if !res.Parsed {
				atomic.AddInt64(&unparsed, 1)
			}
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if errors.Is(err, ctx.Err()) || errors.Is(err, ErrPoolClosed) {
				break Loop
			}
			submitErr = err
			cancel()
			break
		}
	}

	// Workers are done once the pool closes, so closing resultCh is safe.
	shutdown()
	consumerErr := <-doneCh
	// The consumer only sees the cancel that followed a failed submit.
	if submitErr != nil {
		consumerErr = submitErr
	}

	if err := bw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}
	batchErrMu.Lock()
	if batchErr != nil && consumerErr == nil {
		consumerErr = batchErr
	}
	batchErrMu.Unlock()

	links := int(atomic.LoadInt64(&totalLinks))
	logger.Info("ingested document",
		zap.String("title", title),
		zap.Int("sentences", len(sentences)),
		zap.Int64("unparsed", atomic.LoadInt64(&unparsed)),
		zap.Int("links", links),
		zap.Error(consumerErr))
	return links, consumerErr
}

// processSentence segments one sentence and resolves the concepts of its nouns.
func (ig *Ingester) processSentence(index int, sentence string) processedSentence {
	res := processedSentence{Index: index, Sentence: sentence}
	if ig.Matcher == nil {
		return res
	}
	matches, ok := ig.Matcher.Parse(sentence)
	res.Parsed = ok
	if !ok {
		return res
	}

	seen := make(map[link]bool)
	add := func(l link) {
		if !seen[l] {
			seen[l] = true
			res.Links = append(res.Links, l)
		}
	}
	for _, m := range matches {
		if m.Kind() != phrase.CatNoun {
			continue
		}
		if m.Concept != "" {
			add(link{Lemma: m.Surface, Concept: m.Concept, POS: lexnet.DefaultPOS})
			continue
		}
		if ig.Dict == nil {
			continue
		}
		for _, e := range ig.Dict.Lookup(m.Surface, m.Surface, "") {
			add(link{Lemma: m.Surface, Concept: e.Concept(), POS: dictionary.EntryPOS(e)})
		}
	}
	return res
}
