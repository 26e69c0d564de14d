package lexnet

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterIDs hands out 1, 2, 3, ... so generated ids are predictable.
func counterIDs() IDSource {
	var n int64
	return func() int64 { return atomic.AddInt64(&n, 1) }
}

func setupTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithIDSource(counterIDs())}, opts...)
	s, err := Open(context.Background(), ":memory:", opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow(query, args...).Scan(&n))
	return n
}

func TestAddWordIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "犬", "", "n", ""))
	require.NoError(t, s.AddWord(ctx, "犬", "", "n", ""))

	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM word WHERE lemma = ?`, "犬"))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM sense`))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset WHERE name = ?`, "犬"))
}

func TestAddWordDefaultsAndSynsetName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "にゃんこ", "true_cat", "", ""))

	words, err := s.View().Words(ctx, "にゃんこ", "")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "jpn", words[0].Lang)
	assert.Equal(t, "n", words[0].POS)
	assert.Equal(t, int64(1), words[0].ID)

	synsets, err := s.View().Synsets(ctx, words[0])
	require.NoError(t, err)
	require.Len(t, synsets, 1)
	assert.Equal(t, "true_cat", synsets[0].Name)
	assert.Equal(t, "2-n", synsets[0].ID)
	assert.Equal(t, DefaultSrc, synsets[0].Src)

	// Same word, second concept: one word row, two senses.
	require.NoError(t, s.AddWord(ctx, "にゃんこ", "pet", "", ""))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM word`))
	senses, err := s.View().Senses(ctx, words[0].ID)
	require.NoError(t, err)
	assert.Len(t, senses, 2)
}

func TestAddWordLanguagesAreDistinct(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "pan", "", "", "jpn"))
	require.NoError(t, s.AddWord(ctx, "pan", "", "", "eng"))
	assert.Equal(t, 2, countRows(t, s, `SELECT COUNT(*) FROM word WHERE lemma = 'pan'`))
	// Both words express the one concept named "pan".
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset WHERE name = 'pan'`))
}

func TestAddWordEmptyLemma(t *testing.T) {
	s := setupTestStore(t)
	err := s.AddWord(context.Background(), "", "", "", "")
	assert.True(t, errors.Is(err, ErrEmptyKey))
}

func TestWordIDRedrawnOnCollision(t *testing.T) {
	draws := []int64{7, 7, 7, 8, 9}
	var i int
	ids := func() int64 {
		v := draws[i]
		i++
		return v
	}
	s := setupTestStore(t, WithIDSource(ids))
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "一", "", "", "")) // word 7, synset 7-n
	require.NoError(t, s.AddWord(ctx, "二", "", "", "")) // 7 is taken: word 8, synset 9-n

	words, err := s.View().Words(ctx, "二", "")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, int64(8), words[0].ID)
}

func TestAddWordFillsReading(t *testing.T) {
	s := setupTestStore(t, WithReadings(func(lemma string) string {
		if lemma == "猫" {
			return "ねこ"
		}
		return ""
	}))
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "猫", "", "", ""))
	require.NoError(t, s.AddWord(ctx, "cat", "猫", "", "eng"))

	w, err := s.View().Words(ctx, "猫", "")
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.Equal(t, "ねこ", w[0].Pron)

	w, err = s.View().Words(ctx, "cat", "")
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.Equal(t, "", w[0].Pron)
}

func TestAddWordConcurrency(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.AddWord(ctx, "犬", "", "", "")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM word`))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset`))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM sense`))
}

func TestCascadingDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "X", "", "", ""))
	_, err := s.AddSynsetDef(ctx, "X", "gloss", "", "")
	require.NoError(t, err)
	require.NoError(t, s.AddSynLink(ctx, "X", "n", "Y", "n", "isa"))

	info, err := s.SynLinkInfoByName(ctx, "X")
	require.NoError(t, err)
	require.NotEmpty(t, info)

	require.NoError(t, s.DeleteWord(ctx, "X", ""))

	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM word`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM sense`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM synset WHERE name = 'X'`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM synset_def`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM synlink`))
	// Y only lost its incoming edge.
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset WHERE name = 'Y'`))

	info, err = s.SynLinkInfoByName(ctx, "X")
	require.NoError(t, err)
	assert.Empty(t, info)
}

func TestDeleteWordConceptOnly(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// "動物" is a concept name here, never a word.
	require.NoError(t, s.AddWord(ctx, "犬", "動物", "", ""))
	require.NoError(t, s.DeleteWord(ctx, "動物", ""))

	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM word WHERE lemma = '犬'`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM synset`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM sense`))
}

func TestDeleteMissingIsNoop(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	assert.NoError(t, s.DeleteWord(ctx, "ない", ""))
	assert.NoError(t, s.DeleteSynsetDef(ctx, "ない", ""))
}

func TestAddSynsetDef(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	name, err := s.AddSynsetDef(ctx, "true_cat", "にゃんこ大戦争", "", "")
	require.NoError(t, err)
	assert.Equal(t, "true_cat", name)

	name, err = s.AddSynsetDef(ctx, "true_cat", "にゃんこ大戦争", "", "")
	require.NoError(t, err)
	assert.Equal(t, "true_cat", name)
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset_def`))

	// Same text in another language is a different row.
	_, err = s.AddSynsetDef(ctx, "true_cat", "にゃんこ大戦争", "", "eng")
	require.NoError(t, err)
	assert.Equal(t, 2, countRows(t, s, `SELECT COUNT(*) FROM synset_def`))
}

func TestAddSynsetDefAnonymous(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	name, err := s.AddSynsetDef(ctx, "", "名もない概念", "s", "")
	require.NoError(t, err)
	assert.Equal(t, "1-s", name)

	syn, ok, err := s.View().Synset(ctx, name)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, name, syn.Name)

	defs, err := s.View().SynsetDefs(ctx, syn, "")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "名もない概念", defs[0].Gloss)
	assert.Equal(t, name, defs[0].Name)
	assert.NotEmpty(t, defs[0].SID)
}

func TestDeleteSynsetDefScopedToLang(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.AddSynsetDef(ctx, "a", "text", "", "jpn")
	require.NoError(t, err)
	_, err = s.AddSynsetDef(ctx, "b", "text", "", "jpn")
	require.NoError(t, err)
	_, err = s.AddSynsetDef(ctx, "a", "text", "", "eng")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSynsetDef(ctx, "text", "jpn"))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset_def`))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synset_def WHERE lang = 'eng'`))
}

func TestAddSynLinkUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSynLink(ctx, "A", "n", "B", "n", "isa"))
	require.NoError(t, s.AddSynLink(ctx, "A", "n", "B", "n", "isa"))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synlink`))

	// Label and direction are part of the key.
	require.NoError(t, s.AddSynLink(ctx, "A", "n", "B", "n", "hasa"))
	require.NoError(t, s.AddSynLink(ctx, "B", "n", "A", "n", "isa"))
	assert.Equal(t, 3, countRows(t, s, `SELECT COUNT(*) FROM synlink`))
}

func TestAddSynLinkKeepsPosOfRecord(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWord(ctx, "走る", "", "v", ""))
	require.NoError(t, s.AddSynLink(ctx, "走る", "n", "動く", "v", "isa"))

	g := s.View()
	run, err := g.SynsetsByName(ctx, "走る")
	require.NoError(t, err)
	require.Len(t, run, 1)
	assert.Equal(t, "v", run[0].POS)

	move, err := g.SynsetsByName(ctx, "動く")
	require.NoError(t, err)
	require.Len(t, move, 1)
	assert.Equal(t, "v", move[0].POS)
}

func TestAddSynLinkEmptyKey(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	assert.ErrorIs(t, s.AddSynLink(ctx, "A", "n", "B", "n", ""), ErrEmptyKey)
	assert.ErrorIs(t, s.AddSynLink(ctx, "", "n", "B", "n", "isa"), ErrEmptyKey)
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM synset`))
}

func TestAddFrame(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddFrame(ctx, "旅行", "宿泊"))

	info, err := s.SynLinkInfoByName(ctx, "旅行")
	require.NoError(t, err)
	require.Len(t, info, 2)
	assert.Equal(t, LinkFrame, info[0].Kind)
	assert.Equal(t, "宿泊", info[0].Name)
	assert.Equal(t, "f", info[0].POS)
	assert.Equal(t, KindSynset, info[1].Kind)
}

func TestUpdateRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(g *Graph) error {
		if err := g.AddWord(ctx, "犬", "", "", ""); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM word`))
}

func TestBindComposesInCallerTx(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tx, err := s.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	g := s.Bind(tx)
	require.NoError(t, g.AddWord(ctx, "犬", "", "", ""))
	require.NoError(t, g.AddSynLink(ctx, "犬", "n", "動物", "n", "isa"))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM synlink`))
}
