package main

import (
	"github.com/japaniel/snark/pkg/phrase"
	"github.com/spf13/cobra"
)

// matchView is how a phrase match is printed.
type matchView struct {
	Category string `yaml:"category"`
	Word     string `yaml:"word"`
	Concept  string `yaml:"concept,omitempty"`
	Surface  string `yaml:"surface"`
	Length   int    `yaml:"length"`
}

func viewMatches(ms []phrase.Match) []matchView {
	out := make([]matchView, 0, len(ms))
	for _, m := range ms {
		out = append(out, matchView{
			Category: m.Category,
			Word:     m.Word,
			Concept:  m.Concept,
			Surface:  m.Surface,
			Length:   m.Length,
		})
	}
	return out
}

func newMatchCmd(a *app) *cobra.Command {
	var pre, pret string
	cmd := &cobra.Command{
		Use:   "match <text>",
		Short: "List the phrases that can start text, longest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.matcher(cmd.Context())
			if err != nil {
				return err
			}
			return printYAML(cmd, viewMatches(m.Phrases(args[0], pre, pret)))
		},
	}
	cmd.Flags().StringVar(&pre, "pre", "", "text preceding the match")
	cmd.Flags().StringVar(&pret, "pret", "", "category of the preceding phrase")
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Segment text into a sequence of phrases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.matcher(cmd.Context())
			if err != nil {
				return err
			}
			ms, ok := m.Parse(args[0])
			return printYAML(cmd, struct {
				Parsed  bool        `yaml:"parsed"`
				Phrases []matchView `yaml:"phrases"`
			}{ok, viewMatches(ms)})
		},
	}
}
