package phrase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/japaniel/snark/pkg/lexnet"
)

// LoadCSV reads headerless category,word,concept,connection records. Missing
// cells are read as "".
func LoadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read phrase dictionary: %w", err)
		}
		for len(rec) < 4 {
			rec = append(rec, "")
		}
		rows = append(rows, Row{Category: rec[0], Word: rec[1], Concept: rec[2], Connection: rec[3]})
	}
	return rows, nil
}

// LoadFile reads a phrase dictionary CSV from path.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// PatternSource is implemented by lexnet.Store and lexnet.Graph.
type PatternSource interface {
	PatternRows(ctx context.Context, lang string) ([]lexnet.PatternRow, error)
}

// FromStore projects the graph's senses and glosses in lang into rows.
func FromStore(ctx context.Context, src PatternSource, lang string) ([]Row, error) {
	prs, err := src.PatternRows(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("load pattern rows: %w", err)
	}
	rows := make([]Row, 0, len(prs))
	for _, pr := range prs {
		rows = append(rows, Row{Category: pr.Category, Word: pr.Word, Concept: pr.Concept})
	}
	return rows, nil
}
