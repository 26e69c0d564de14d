package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/japaniel/snark/pkg/lexnet"
	"github.com/japaniel/snark/pkg/phrase"
	"github.com/stretchr/testify/require"
)

func setupBenchmarkStore(b *testing.B) *lexnet.Store {
	s, err := lexnet.Open(context.Background(), ":memory:")
	require.NoError(b, err)
	// Focus on application throughput rather than durability.
	_, _ = s.DB().Exec("PRAGMA synchronous = OFF")
	_, _ = s.DB().Exec("PRAGMA journal_mode = MEMORY")
	return s
}

func benchmarkMatcher() *phrase.Matcher {
	return phrase.New([]phrase.Row{
		{Category: "n", Word: "これ"},
		{Category: "p", Word: "は"},
		{Category: "n", Word: "テスト", Concept: "test"},
		{Category: "n", Word: "文", Concept: "sentence"},
		{Category: "w", Word: "です"},
		{Category: "t", Word: "です"},
		{Category: "e", Word: "。"},
	})
}

func generateBenchmarkSentences(n int) []string {
	sentences := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			sentences = append(sentences, "これはテスト文です。")
		} else {
			sentences = append(sentences, fmt.Sprintf("これはテスト文です%d。", i))
		}
	}
	return sentences
}

func BenchmarkIngest(b *testing.B) {
	sentences := generateBenchmarkSentences(1000)
	m := benchmarkMatcher()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s := setupBenchmarkStore(b)
		ig := NewIngester(s, m)
		ig.Workers = 4
		ig.BatchSize = 100
		b.StartTimer()

		_, err := ig.Ingest(context.Background(), fmt.Sprintf("bench_%d", i), sentences)
		b.StopTimer()
		s.Close()
		if err != nil {
			b.Fatalf("Ingest failed: %v", err)
		}
	}
}

func BenchmarkIngestConcurrencyScaling(b *testing.B) {
	// On an in-memory database the writes serialize; this guards against
	// regressions in the parallel segmentation stage.
	counts := []int{1, 2, 4, 8}
	sentences := generateBenchmarkSentences(1000)
	m := benchmarkMatcher()

	for _, workers := range counts {
		b.Run(fmt.Sprintf("Workers_%d", workers), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				s := setupBenchmarkStore(b)
				ig := NewIngester(s, m)
				ig.Workers = workers
				ig.BatchSize = 100
				b.StartTimer()

				_, err := ig.Ingest(context.Background(), fmt.Sprintf("bench_%d_%d", workers, i), sentences)
				b.StopTimer()
				s.Close()
				if err != nil {
					b.Fatalf("Ingest failed: %v", err)
				}
			}
		})
	}
}
