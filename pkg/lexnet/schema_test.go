package lexnet

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func tableColumns(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("pragmas: %v", err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var colName string
		var ctype sql.NullString
		var notnull, pk int
		var dfltVal interface{}
		if err := rows.Scan(&cid, &colName, &ctype, &notnull, &dfltVal, &pk); err != nil {
			t.Fatalf("scan col: %v", err)
		}
		cols[colName] = true
	}
	return cols
}

// TestInitDBCreatesSchema verifies the five graph tables exist with the
// columns the store reads and writes.
func TestInitDBCreatesSchema(t *testing.T) {
	dbConn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)

	if err := InitDB(context.Background(), dbConn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	want := map[string][]string{
		"word":       {"wordid", "lang", "lemma", "pron", "pos"},
		"sense":      {"synset", "wordid", "lang", "rank", "lexid", "freq", "src"},
		"synset":     {"synset", "pos", "name", "src"},
		"synset_def": {"synset", "lang", "def", "sid"},
		"synlink":    {"synset1", "synset2", "link", "sid"},
	}
	for table, cols := range want {
		got := tableColumns(t, dbConn, table)
		for _, c := range cols {
			if !got[c] {
				t.Errorf("table %s: missing column %s (have %v)", table, c, got)
			}
		}
	}

	for _, idx := range []string{"word_lemma_lang", "sense_synset_wordid", "synset_name", "synset_def_key", "synlink_key"} {
		var name string
		if err := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name); err != nil {
			t.Errorf("index %s missing: %v", idx, err)
		}
	}
}

// TestInitDBIdempotent verifies the schema can be applied to an existing
// database without error or data loss.
func TestInitDBIdempotent(t *testing.T) {
	dbConn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)
	ctx := context.Background()

	if err := InitDB(ctx, dbConn); err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	if _, err := dbConn.Exec(`INSERT INTO word (wordid, lemma) VALUES (1, '犬')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InitDB(ctx, dbConn); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	var n int
	if err := dbConn.QueryRow(`SELECT COUNT(*) FROM word`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 word after re-init, got %d", n)
	}
}

func TestDSN(t *testing.T) {
	cases := map[string]string{
		"snark.db":               "snark.db?_txlock=immediate&_busy_timeout=5000",
		"file:x.db?cache=shared": "file:x.db?cache=shared&_txlock=immediate&_busy_timeout=5000",
		":memory:":               ":memory:?_txlock=immediate&_busy_timeout=5000",
	}
	for in, want := range cases {
		if got := dsn(in); got != want {
			t.Errorf("dsn(%q) = %q, want %q", in, got, want)
		}
	}
	if !isMemory(":memory:") || !isMemory("file:x?mode=memory") || isMemory("snark.db") {
		t.Error("isMemory misclassified a path")
	}
}
