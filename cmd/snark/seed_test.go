package main

import (
	"testing"

	"github.com/japaniel/snark/pkg/phrase"
	"github.com/japaniel/snark/pkg/readerer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRows(t *testing.T) {
	tok := func(surface, base, pos string) readerer.Token {
		return readerer.Token{Surface: surface, BaseForm: base, PrimaryPOS: pos}
	}
	doc := []readerer.Sentence{
		{Text: "猫が鳴きます。", Tokens: []readerer.Token{
			tok("猫", "猫", "名詞"), tok("が", "が", "助詞"), tok("鳴き", "鳴く", "動詞"),
			tok("ます", "ます", "助動詞"), tok("。", "。", "記号"),
		}},
		{Text: "猫が鳴いた！", Tokens: []readerer.Token{
			tok("猫", "猫", "名詞"), tok("が", "が", "助詞"), tok("鳴い", "鳴く", "動詞"),
			tok("た", "た", "助動詞"), tok("！", "！", "記号"), tok("ｘ", "ｘ", "フィラー"),
		}},
	}

	rows := seedRows(doc)
	assert.Equal(t, []phrase.Row{
		{Category: "n", Word: "猫", Concept: "猫"},
		{Category: "p", Word: "が"},
		{Category: "v", Word: "鳴く"},
		{Category: "w", Word: "ます"},
		{Category: "e", Word: "。"},
		{Category: "w", Word: "た"},
		{Category: "e", Word: "！"},
	}, rows)

	got, ok := phrase.New(rows).Parse("猫が鳴きます。")
	require.True(t, ok)
	assert.Len(t, got, 5)
}
