package readerer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"no delimiter", "こんにちは", []string{"こんにちは"}},
		{"delimiters kept", "はい。本当？すごい！", []string{"はい。", "本当？", "すごい！"}},
		{"newlines", "一行目\n\n  二行目\n", []string{"一行目", "二行目"}},
		{"trailing text", "終わり。続き", []string{"終わり。", "続き"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}
