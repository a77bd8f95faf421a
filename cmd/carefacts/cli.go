package main

import (
	"context"
	"io"

	"github.com/carefacts/carefacts"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Registry  *carefacts.Registry
	Documents carefacts.DocumentStore
	Search    carefacts.SearchService
	Ingestor  carefacts.Ingestor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Ingest   IngestCmd   `cmd:"" help:"Ingest documents into the corpus"`
	Search   SearchCmd   `cmd:"" help:"Search the corpus by text and tags"`
	Taxonomy TaxonomyCmd `cmd:"" help:"Inspect the taxonomy"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Paths       []string `arg:"" optional:"" type:"path" help:"Files or directories to ingest"`
	URL         string   `help:"Source URL for a single input file"`
	Type        string   `enum:",webpage,file,manual" default:"" help:"Content type override (default: chosen by extension)"`
	Title       string   `help:"Title override for a single input file"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent ingestion limit"`
	Rate        float64  `help:"Max items per second (0 = unlimited)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query  []string `arg:"" optional:"" help:"Query text"`
	Tag    []string `short:"t" help:"Require a taxonomy label (repeatable, conjunctive)"`
	Type   string   `enum:",webpage,file,manual" default:"" help:"Restrict to one content type"`
	Limit  int      `default:"10" help:"Max results"`
	Offset int      `default:"0" help:"Results to skip"`
	Full   bool     `help:"Show document summaries"`
}

// TaxonomyCmd is the "taxonomy" subcommand.
type TaxonomyCmd struct {
	List    TaxonomyListCmd    `cmd:"" default:"1" help:"Print the taxonomy hierarchy"`
	Resolve TaxonomyResolveCmd `cmd:"" help:"Resolve a label to its taxonomy node"`
}

// TaxonomyListCmd is the "taxonomy list" subcommand.
type TaxonomyListCmd struct{}

// TaxonomyResolveCmd is the "taxonomy resolve" subcommand.
type TaxonomyResolveCmd struct {
	Label  string `arg:"" help:"Taxonomy label to resolve"`
	Domain string `help:"Disambiguate a label shared across domains"`
}
