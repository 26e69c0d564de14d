package main

import (
	"github.com/japaniel/snark/pkg/lexnet"
	"github.com/spf13/cobra"
)

func newWordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Add, delete and inspect words",
	}

	var pos, lang string
	add := &cobra.Command{
		Use:   "add <lemma> [concept]",
		Short: "Sense lemma to a concept, creating both as needed",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			concept := ""
			if len(args) == 2 {
				concept = args[1]
			}
			return s.AddWord(cmd.Context(), args[0], concept, pos, lang)
		},
	}
	add.Flags().StringVar(&pos, "pos", "", "part of speech (default n)")
	add.Flags().StringVar(&lang, "lang", "", "language (default jpn)")

	var delLang string
	del := &cobra.Command{
		Use:   "delete <lemma>",
		Short: "Delete the words spelled lemma and any concept named lemma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.DeleteWord(cmd.Context(), args[0], delLang)
		},
	}
	del.Flags().StringVar(&delLang, "lang", "", "language (default jpn)")

	info := &cobra.Command{
		Use:   "info <lemma>",
		Short: "Show the concepts a lemma expresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := s.WordInfoByLemma(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, emptyIfNil(rows))
		},
	}

	links := &cobra.Command{
		Use:   "links <lemma>",
		Short: "Show the concepts linked from the concepts of a lemma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := s.WordLinkInfoByLemma(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, emptyIfNil(rows))
		},
	}

	same := &cobra.Command{
		Use:   "same <lemma>",
		Short: "List the words sharing a concept with lemma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			pairs, err := s.View().SameWords(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := make([]map[string]string, 0, len(pairs))
			for _, p := range pairs {
				out = append(out, map[string]string{"lemma": p.Lemma, "synset": p.Synset})
			}
			return printYAML(cmd, out)
		},
	}

	cmd.AddCommand(add, del, info, links, same)
	return cmd
}

func newDefCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "def",
		Short: "Add and delete concept glosses",
	}

	var pos, lang string
	add := &cobra.Command{
		Use:   "add <concept> <gloss>",
		Short: "Attach a gloss to a concept; an empty concept creates an anonymous one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			name, err := s.AddSynsetDef(cmd.Context(), args[0], args[1], pos, lang)
			if err != nil {
				return err
			}
			return printYAML(cmd, map[string]string{"name": name})
		},
	}
	add.Flags().StringVar(&pos, "pos", "", "part of speech (default n)")
	add.Flags().StringVar(&lang, "lang", "", "language (default jpn)")

	var delLang string
	del := &cobra.Command{
		Use:   "delete <gloss>",
		Short: "Delete a gloss in one language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.DeleteSynsetDef(cmd.Context(), args[0], delLang)
		},
	}
	del.Flags().StringVar(&delLang, "lang", "", "language (default jpn)")

	cmd.AddCommand(add, del)
	return cmd
}

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Add typed links between concepts",
	}
	var pos1, pos2 string
	add := &cobra.Command{
		Use:   "add <concept1> <link> <concept2>",
		Short: "Link concept1 to concept2, e.g. snark link add 犬 isa 動物",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.AddSynLink(cmd.Context(), args[0], pos1, args[2], pos2, args[1])
		},
	}
	add.Flags().StringVar(&pos1, "pos1", "", "part of speech of concept1 when created")
	add.Flags().StringVar(&pos2, "pos2", "", "part of speech of concept2 when created")
	cmd.AddCommand(add)
	return cmd
}

func newFrameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Organise topics as frames",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <parent> <frame>",
		Short: "Record frame as a sub-topic of parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.AddFrame(cmd.Context(), args[0], args[1])
		},
	})
	return cmd
}

func newPhraseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phrase",
		Short: "Record example sentences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <prev> <sentence>",
		Short: `Store a sentence and chain it after prev ("" for none)`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			name, err := s.AddPhrase(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printYAML(cmd, map[string]string{"name": name})
		},
	})
	return cmd
}

func newLinksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "links <concept>",
		Short: "Show the outgoing links of a concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := s.SynLinkInfoByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, emptyIfNil(rows))
		},
	}
}

func newNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next <concept>",
		Short: `Replay the "next" chain starting at a concept`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := s.SynLinkNextByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, emptyIfNil(rows))
		},
	}
}

func newImagenetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "imagenet <lemma>",
		Short: "Print ImageNet URL lists for the concepts of a lemma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			uris, err := s.ImagenetURIs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if uris == nil {
				uris = []string{}
			}
			return printYAML(cmd, uris)
		},
	}
}

// emptyIfNil keeps empty results printing as [] rather than null.
func emptyIfNil(rows []lexnet.Info) []lexnet.Info {
	if rows == nil {
		return []lexnet.Info{}
	}
	return rows
}
