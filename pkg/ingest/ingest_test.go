package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/japaniel/snark/pkg/dictionary"
	"github.com/japaniel/snark/pkg/lexnet"
	"github.com/japaniel/snark/pkg/phrase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t testing.TB) *lexnet.Store {
	t.Helper()
	s, err := lexnet.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testMatcher() *phrase.Matcher {
	return phrase.New([]phrase.Row{
		{Category: "n", Word: "猫", Concept: "cat"},
		{Category: "n", Word: "犬", Concept: "dog"},
		{Category: "n", Word: "鳥"},
		{Category: "p", Word: "が"},
		{Category: "v", Word: "鳴く"},
		{Category: "w", Word: "ます"},
		{Category: "e", Word: "。"},
	})
}

// glosses returns the sentence glosses reachable from name in chain order.
func glosses(t *testing.T, s *lexnet.Store, name string) []string {
	t.Helper()
	info, err := s.SynLinkNextByName(context.Background(), name)
	require.NoError(t, err)
	var out []string
	for _, i := range info {
		if i.Kind == lexnet.KindSynset && i.Gloss != "" {
			out = append(out, i.Gloss)
		}
	}
	return out
}

func TestIngestChainsSentences(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	sentences := []string{"猫が鳴きます。", "犬が鳴きます。", "猫と犬。"}
	ig := NewIngester(s, testMatcher())
	ig.BatchSize = 2

	var mu sync.Mutex
	var progress [][2]int
	ig.OnProgress = func(current, total int) {
		mu.Lock()
		progress = append(progress, [2]int{current, total})
		mu.Unlock()
	}

	count, err := ig.Ingest(ctx, "吾輩は猫である", sentences)
	require.NoError(t, err)
	// The third sentence does not segment, so only two nouns are sensed.
	assert.Equal(t, 2, count)

	assert.Equal(t, sentences, glosses(t, s, "吾輩は猫である"))

	frames, err := s.SynLinkInfoByName(ctx, DefaultRoot)
	require.NoError(t, err)
	var titles []string
	for _, i := range frames {
		if i.Kind == lexnet.LinkFrame {
			titles = append(titles, i.Name)
		}
	}
	assert.Equal(t, []string{"吾輩は猫である"}, titles)

	words, err := s.View().Words(ctx, "犬", "n")
	require.NoError(t, err)
	require.Len(t, words, 1)
	synsets, err := s.View().Synsets(ctx, words[0])
	require.NoError(t, err)
	require.Len(t, synsets, 1)
	assert.Equal(t, "dog", synsets[0].Name)

	require.NotEmpty(t, progress)
	assert.Equal(t, [2]int{3, 3}, progress[len(progress)-1])
}

func TestIngestPreservesOrder(t *testing.T) {
	s := setupStore(t)

	var sentences []string
	for i := 0; i < 40; i++ {
		sentences = append(sentences, fmt.Sprintf("猫が鳴きます%d。", i))
	}
	ig := NewIngester(s, testMatcher())
	ig.Workers = 8
	ig.BatchSize = 3

	_, err := ig.Ingest(context.Background(), "順番", sentences)
	require.NoError(t, err)
	assert.Equal(t, sentences, glosses(t, s, "順番"))
}

func TestIngestSameTitleTwice(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	ig := NewIngester(s, testMatcher())

	_, err := ig.Ingest(ctx, "記事", []string{"猫が鳴きます。"})
	require.NoError(t, err)
	_, err = ig.Ingest(ctx, "記事", []string{"犬が鳴きます。"})
	require.NoError(t, err)

	// Both runs hang off the same frame; each is its own branch.
	got := glosses(t, s, "記事")
	assert.ElementsMatch(t, []string{"猫が鳴きます。", "犬が鳴きます。"}, got)
}

func TestIngestDictionaryFallback(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	entries, err := dictionary.Decode(strings.NewReader(`{"words":[
		{"id":"100","kanji":[{"text":"鳥"}],"kana":[{"text":"とり"}],
		 "sense":[{"partOfSpeech":["n"],"gloss":[{"lang":"eng","text":"bird"}]}]}]}`))
	require.NoError(t, err)

	ig := NewIngester(s, testMatcher())
	ig.Dict = dictionary.NewImporter(entries)

	count, err := ig.Ingest(ctx, "鳥の話", []string{"鳥が鳴きます。", "鳥が鳴きます。"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	words, err := s.View().Words(ctx, "鳥", "n")
	require.NoError(t, err)
	require.Len(t, words, 1)
	synsets, err := s.View().Synsets(ctx, words[0])
	require.NoError(t, err)
	require.Len(t, synsets, 1)
	assert.Equal(t, "jmdict:100", synsets[0].Name)
}

func TestIngestWithoutMatcher(t *testing.T) {
	s := setupStore(t)
	ig := NewIngester(s, nil)

	count, err := ig.Ingest(context.Background(), "素文", []string{"一。", "二。"})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, []string{"一。", "二。"}, glosses(t, s, "素文"))
}

func TestIngestEmptyTitle(t *testing.T) {
	ig := NewIngester(setupStore(t), testMatcher())
	_, err := ig.Ingest(context.Background(), "", []string{"猫。"})
	assert.ErrorIs(t, err, lexnet.ErrEmptyKey)
}

func TestIngestContextCancel(t *testing.T) {
	s := setupStore(t)

	sentences := make([]string, 100)
	for i := range sentences {
		sentences[i] = "猫が鳴きます。"
	}

	ig := NewIngester(s, testMatcher())
	ig.BatchSize = 10

	// Create a context that is ALREADY canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := ig.Ingest(ctx, "取消", sentences)
	assert.Equal(t, 0, count)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	info, err := s.SynLinkInfoByName(context.Background(), "取消")
	require.NoError(t, err)
	assert.Empty(t, info)
}

// frameFailStore fails the initial frame write.
type frameFailStore struct{ *lexnet.Store }

func (frameFailStore) AddFrame(ctx context.Context, prev, frame string) error {
	return errors.New("disk full")
}

func TestIngestFrameError(t *testing.T) {
	ig := NewIngester(frameFailStore{setupStore(t)}, testMatcher())
	_, err := ig.Ingest(context.Background(), "記事", []string{"猫。"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
