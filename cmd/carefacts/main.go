package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/carefacts/carefacts"
	"github.com/carefacts/carefacts/bloom"
	"github.com/carefacts/carefacts/classify"
	"github.com/carefacts/carefacts/goquery"
	"github.com/carefacts/carefacts/htmltomarkdown"
	"github.com/carefacts/carefacts/ingest"
	"github.com/carefacts/carefacts/normalize"
	careslog "github.com/carefacts/carefacts/slog"
	"github.com/carefacts/carefacts/sqlite"
	"github.com/carefacts/carefacts/trafilatura"
	"github.com/carefacts/carefacts/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Taxonomy definition path (.md or .yaml). Set before calling Run().
	TaxonomyPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Registry  *carefacts.Registry
	Documents carefacts.DocumentStore
	Search    carefacts.SearchService
	Ingestor  carefacts.Ingestor
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:       defaultDBPath(),
		TaxonomyPath: defaultTaxonomyPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("carefacts"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'carefacts --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	registry, err := loadRegistry(m.TaxonomyPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set CAREFACTS_TAXONOMY to point at a taxonomy definition (.md or .yaml)\n")
		return fmt.Errorf("failed to load taxonomy from %q: %w", m.TaxonomyPath, err)
	}
	m.Registry = registry

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CAREFACTS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	documents := sqlite.NewDocumentService(m.DB, registry)
	classifier := classify.NewClassifier(registry)
	m.Documents = documents
	m.Search = sqlite.NewSearchService(m.DB, classifier.Scorer())

	deps.Registry = registry
	deps.Documents = m.Documents
	deps.Search = m.Search

	if cmd == "ingest" {
		normalizer := normalize.New(
			trafilatura.NewExtractor(),
			goquery.NewExtractor(),
			htmltomarkdown.NewConverter(),
		)

		opts := []ingest.Option{
			ingest.WithConcurrency(cli.Ingest.Concurrency),
			ingest.WithSeenFilter(bloom.NewFilter(100_000, 0.01)),
		}
		if cli.Ingest.Rate > 0 {
			opts = append(opts, ingest.WithRateLimit(cli.Ingest.Rate))
		}

		pipeline := ingest.NewPipeline(documents, normalizer, classifier, opts...)
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		m.Ingestor = careslog.NewLoggingIngestor(pipeline, logger)
		deps.Ingestor = m.Ingestor
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("CAREFACTS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "carefacts.db"
	}
	dir := filepath.Join(home, ".carefacts")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "carefacts.db")
}

func defaultTaxonomyPath() string {
	if path := os.Getenv("CAREFACTS_TAXONOMY"); path != "" {
		return path
	}
	return "taxonomy.yaml"
}

// loadRegistry reads a taxonomy definition file and builds the registry.
// Markdown outlines and YAML files are both accepted, chosen by extension.
func loadRegistry(path string) (*carefacts.Registry, error) {
	var entries []carefacts.TaxonomyEntry

	switch filepath.Ext(path) {
	case ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		entries, err = carefacts.ParseMarkdownDefinition(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	default:
		var err error
		entries, err = yaml.LoadDefinition(path)
		if err != nil {
			return nil, err
		}
	}

	return carefacts.LoadRegistry(entries)
}
