package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/japaniel/snark/pkg/config"
	"github.com/japaniel/snark/pkg/lexnet"
	"github.com/japaniel/snark/pkg/logging"
	"github.com/japaniel/snark/pkg/phrase"
	"github.com/japaniel/snark/pkg/readerer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgPath  string
	dbPath   string
	readings bool

	cfg      *config.Config
	log      *zap.Logger
	store    *lexnet.Store
	analyzer *readerer.Analyzer
}

// setup loads configuration and the logger. Flags override config values.
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DB = a.dbPath
	}
	a.cfg = cfg

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// teardown closes whatever the command opened.
func (a *app) teardown() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.log != nil {
		// Syncing stderr fails on some platforms; it is not worth reporting.
		_ = a.log.Sync()
	}
	return errors.Join(errs...)
}

// openStore opens the graph database once per invocation.
func (a *app) openStore(ctx context.Context) (*lexnet.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	opts := []lexnet.Option{lexnet.WithLogger(a.log.Named("lexnet"))}
	if a.readings {
		an, err := a.getAnalyzer()
		if err != nil {
			return nil, err
		}
		opts = append(opts, lexnet.WithReadings(an.Reading))
	}
	s, err := lexnet.Open(ctx, a.cfg.DB, opts...)
	if err != nil {
		return nil, err
	}
	a.log.Debug("opened graph store", zap.String("path", a.cfg.DB))
	a.store = s
	return s, nil
}

func (a *app) getAnalyzer() (*readerer.Analyzer, error) {
	if a.analyzer != nil {
		return a.analyzer, nil
	}
	an, err := readerer.NewAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	a.analyzer = an
	return an, nil
}

// matcher builds the phrase matcher from the configured CSV, or from the
// graph store when none is configured.
func (a *app) matcher(ctx context.Context) (*phrase.Matcher, error) {
	opts := []phrase.Option{phrase.WithLogger(a.log.Named("phrase"))}
	if a.cfg.Phrases != "" {
		rows, err := phrase.LoadFile(a.cfg.Phrases)
		if err != nil {
			return nil, err
		}
		return phrase.New(rows, opts...), nil
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := phrase.FromStore(ctx, s, a.cfg.Lang)
	if err != nil {
		return nil, err
	}
	return phrase.New(rows, opts...), nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// printYAML writes v to the command's output as a YAML document.
func printYAML(cmd *cobra.Command, v interface{}) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// run executes one command line and releases everything it opened.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "snark",
		Short:         "Maintain a Japanese lexical graph and parse text against it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", config.DefaultPath, "config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "graph database path (overrides SNARK_DB)")
	root.PersistentFlags().BoolVar(&a.readings, "readings", false, "fill pronunciations of new words with kagome")

	root.AddCommand(
		newWordCmd(a),
		newDefCmd(a),
		newLinkCmd(a),
		newFrameCmd(a),
		newPhraseCmd(a),
		newLinksCmd(a),
		newNextCmd(a),
		newImagenetCmd(a),
		newMatchCmd(a),
		newParseCmd(a),
		newIngestCmd(a),
		newImportCmd(a),
		newTableCmd(a),
		newEnvCmd(),
		newVersionCmd(),
	)
	return root
}
