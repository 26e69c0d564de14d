package lexnet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// LinkRow is one (synset1, link, synset2) triple of a LinkTable.
type LinkRow struct {
	Synset1 string
	Link    string
	Synset2 string
}

// LinkTable is an in-memory scratch network of concept links keyed by
// concept name, loaded from and saved to CSV. It is not persisted in the
// graph store.
type LinkTable struct {
	mu   sync.RWMutex
	rows []LinkRow
}

var linkHeader = []string{"synset1", "link", "synset2"}

// LoadLinkTable reads a CSV with a synset1,link,synset2 header. Short rows are
// padded with empty strings.
func LoadLinkTable(r io.Reader) (*LinkTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	t := &LinkTable{}
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read link table: %w", err)
		}
		if first {
			first = false
			if len(rec) > 0 && rec[0] == linkHeader[0] {
				continue
			}
		}
		for len(rec) < 3 {
			rec = append(rec, "")
		}
		t.rows = append(t.rows, LinkRow{Synset1: rec[0], Link: rec[1], Synset2: rec[2]})
	}
	return t, nil
}

// Save writes the table as CSV with a header row.
func (t *LinkTable) Save(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cw := csv.NewWriter(w)
	if err := cw.Write(linkHeader); err != nil {
		return err
	}
	for _, r := range t.rows {
		if err := cw.Write([]string{r.Synset1, r.Link, r.Synset2}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Add appends a link.
func (t *LinkTable) Add(synset1, link, synset2 string) {
	t.mu.Lock()
	t.rows = append(t.rows, LinkRow{Synset1: synset1, Link: link, Synset2: synset2})
	t.mu.Unlock()
}

// Len returns the number of rows.
func (t *LinkTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Select returns every row leaving key.
func (t *LinkTable) Select(key string) []LinkRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []LinkRow
	for _, r := range t.rows {
		if r.Synset1 == key {
			out = append(out, r)
		}
	}
	return out
}

// SelectLink returns the targets of key's link edges.
func (t *LinkTable) SelectLink(key, link string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	for _, r := range t.rows {
		if r.Synset1 == key && r.Link == link {
			out = append(out, r.Synset2)
		}
	}
	return out
}

// SelectLinkRef returns the sources of link edges arriving at key.
func (t *LinkTable) SelectLinkRef(key, link string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	for _, r := range t.rows {
		if r.Synset2 == key && r.Link == link {
			out = append(out, r.Synset1)
		}
	}
	return out
}

// SelectEq returns, sorted and without duplicates, every name joined to key
// by an "eq" edge in either direction, key included.
func (t *LinkTable) SelectEq(key string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set := map[string]struct{}{}
	for _, r := range t.rows {
		if r.Link == "eq" && (r.Synset1 == key || r.Synset2 == key) {
			set[r.Synset1] = struct{}{}
			set[r.Synset2] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadIsaWords adds "<word> isa <concept>" for every word sharing a concept
// with lemma in g.
func (t *LinkTable) LoadIsaWords(ctx context.Context, g *Graph, lemma string) error {
	same, err := g.SameWords(ctx, lemma)
	if err != nil {
		return err
	}
	for _, ws := range same {
		t.Add(ws.Lemma, LinkIsa, ws.Synset)
	}
	return nil
}
