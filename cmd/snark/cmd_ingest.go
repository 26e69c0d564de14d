package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/japaniel/snark/pkg/dictionary"
	"github.com/japaniel/snark/pkg/ingest"
	"github.com/japaniel/snark/pkg/phrase"
	"github.com/japaniel/snark/pkg/readerer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		urlFlag   string
		fileFlag  string
		titleFlag string
		rootFlag  string
		useDict   bool
		analyze   bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record a web page or file as a chain of parsed sentences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (urlFlag == "") == (fileFlag == "") {
				return errors.New("exactly one of --url or --file is required")
			}

			var article *readerer.Article
			var err error
			if urlFlag != "" {
				a.log.Info("fetching", zap.String("url", urlFlag))
				f := readerer.NewFetcher(
					readerer.WithTimeout(a.cfg.FetchTimeout),
					readerer.WithFetchLogger(a.log.Named("fetch")),
				)
				article, err = f.Fetch(ctx, urlFlag)
			} else {
				article, err = readFile(fileFlag)
			}
			if err != nil {
				return err
			}

			title := titleFlag
			if title == "" {
				title = article.Title
			}
			if title == "" {
				title = article.URL
			}
			sentences := readerer.SplitSentences(article.Text)

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			m, err := a.matcher(ctx)
			if err != nil {
				return err
			}
			if analyze || m.Len() == 0 {
				an, err := a.getAnalyzer()
				if err != nil {
					return err
				}
				doc, err := an.AnalyzeDocument(article.Text)
				if err != nil {
					return fmt.Errorf("analysis failed: %w", err)
				}
				seeded := seedRows(doc)
				a.log.Info("seeded patterns from analysis", zap.Int("rows", len(seeded)))
				m = phrase.New(append(m.Rows(), seeded...), phrase.WithLogger(a.log.Named("phrase")))
			}

			ig := ingest.NewIngester(s, m)
			ig.Workers = a.cfg.Workers
			ig.BatchSize = a.cfg.BatchSize
			ig.Logger = a.log.Named("ingest")
			if rootFlag != "" {
				ig.Root = rootFlag
			}
			if useDict {
				im, err := a.loadDictionary(cmd, false)
				if err != nil {
					a.log.Warn("continuing without dictionary", zap.Error(err))
				} else {
					ig.Dict = im
				}
			}
			ig.OnProgress = func(current, total int) {
				a.log.Debug("ingest progress", zap.Int("current", current), zap.Int("total", total))
			}

			start := time.Now()
			links, err := ig.Ingest(ctx, title, sentences)
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}
			return printYAML(cmd, map[string]interface{}{
				"title":     title,
				"sentences": len(sentences),
				"links":     links,
				"elapsed":   time.Since(start).Round(time.Millisecond).String(),
			})
		},
	}
	cmd.Flags().StringVar(&urlFlag, "url", "", "page to fetch")
	cmd.Flags().StringVar(&fileFlag, "file", "", "local .html or plain text file")
	cmd.Flags().StringVar(&titleFlag, "title", "", "document title (default: extracted title)")
	cmd.Flags().StringVar(&rootFlag, "root", "", "frame documents are filed under (default source)")
	cmd.Flags().BoolVar(&useDict, "dict", false, "sense unknown nouns through the cached JMdict file")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "add patterns from kagome analysis of the document (always on when there are no patterns)")
	return cmd
}

// readFile loads an HTML page through readability, or plain text as is. The
// file name stands in for a missing title.
func readFile(path string) (*readerer.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var article *readerer.Article
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		article, err = readerer.Extract(f, "")
		if err != nil {
			return nil, err
		}
	default:
		body, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		article = &readerer.Article{Text: string(body)}
	}
	if article.Title == "" {
		article.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return article, nil
}

// loadDictionary reads the configured JMdict file, downloading it first when
// download is set.
func (a *app) loadDictionary(cmd *cobra.Command, download bool) (*dictionary.Importer, error) {
	path := a.cfg.JMdict
	if download {
		d := dictionary.NewDownloader(a.log.Named("dictionary"))
		if err := d.Ensure(cmd.Context(), path); err != nil {
			return nil, err
		}
	} else if !fileExists(path) {
		return nil, fmt.Errorf("dictionary %s not found", path)
	}
	start := time.Now()
	entries, err := dictionary.LoadJMdictSimplified(path)
	if err != nil {
		return nil, err
	}
	a.log.Info("dictionary loaded", zap.Int("entries", len(entries)), zap.Duration("elapsed", time.Since(start)))
	return dictionary.NewImporter(entries,
		dictionary.WithBatchSize(a.cfg.BatchSize*10),
		dictionary.WithLogger(a.log.Named("dictionary")),
	), nil
}

func newImportCmd(a *app) *cobra.Command {
	var download bool
	cmd := &cobra.Command{
		Use:   "import-jmdict [path]",
		Short: "Import a jmdict-simplified file as concepts, words and glosses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.JMdict = args[0]
			}
			im, err := a.loadDictionary(cmd, download)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			n, err := im.Import(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("import stopped after %d entries: %w", n, err)
			}
			return printYAML(cmd, map[string]int{"entries": n})
		},
	}
	cmd.Flags().BoolVar(&download, "download", false, "fetch the latest release when the file is missing")
	return cmd
}
