package main

import (
	"fmt"
	"os"

	"github.com/japaniel/snark/pkg/lexnet"
	"github.com/spf13/cobra"
)

// loadTable reads the link table CSV; a missing file is an empty table.
func loadTable(path string) (*lexnet.LinkTable, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &lexnet.LinkTable{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lexnet.LoadLinkTable(f)
}

func saveTable(path string, t *lexnet.LinkTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

type linkRowView struct {
	Synset1 string `yaml:"synset1"`
	Link    string `yaml:"link"`
	Synset2 string `yaml:"synset2"`
}

func newTableCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Edit and query a CSV scratch network of concept links",
	}
	cmd.PersistentFlags().StringVar(&path, "file", "links.csv", "link table CSV")

	add := &cobra.Command{
		Use:   "add <concept1> <link> <concept2>",
		Short: "Append a link row",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(path)
			if err != nil {
				return err
			}
			t.Add(args[0], args[1], args[2])
			return saveTable(path, t)
		},
	}

	isa := &cobra.Command{
		Use:   "isa <lemma>",
		Short: "Add an isa row for every word sharing a concept with lemma in the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(path)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			before := t.Len()
			if err := t.LoadIsaWords(cmd.Context(), s.View(), args[0]); err != nil {
				return err
			}
			if err := saveTable(path, t); err != nil {
				return err
			}
			return printYAML(cmd, map[string]int{"added": t.Len() - before})
		},
	}

	var link string
	var ref bool
	sel := &cobra.Command{
		Use:   "select <concept>",
		Short: "List rows leaving a concept, or the ends of one link type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(path)
			if err != nil {
				return err
			}
			switch {
			case link == "" && ref:
				return fmt.Errorf("--ref needs --link")
			case link == "":
				out := []linkRowView{}
				for _, r := range t.Select(args[0]) {
					out = append(out, linkRowView(r))
				}
				return printYAML(cmd, out)
			case ref:
				return printYAML(cmd, nonNil(t.SelectLinkRef(args[0], link)))
			default:
				return printYAML(cmd, nonNil(t.SelectLink(args[0], link)))
			}
		},
	}
	sel.Flags().StringVar(&link, "link", "", "only this link type")
	sel.Flags().BoolVar(&ref, "ref", false, "follow --link backwards")

	eq := &cobra.Command{
		Use:   "eq <concept>",
		Short: "List the names joined to a concept by eq rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(path)
			if err != nil {
				return err
			}
			return printYAML(cmd, t.SelectEq(args[0]))
		},
	}

	cmd.AddCommand(add, isa, sel, eq)
	return cmd
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
