package carefacts

// SourceMeta describes where a raw input came from.
type SourceMeta struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	ContentType ContentType `json:"contentType"`
	SourceFile  string      `json:"sourceFile"`
}

// NormalizedDoc is the canonical plain-text representation of a source,
// stripped of markup, with derived title/summary metadata. Normalization is
// deterministic: identical raw input plus metadata always yields an identical
// normalized document.
type NormalizedDoc struct {
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	Text        string      `json:"text"`
	URL         string      `json:"url"`
	ContentType ContentType `json:"contentType"`
	SourceFile  string      `json:"sourceFile"`
}

// Normalizer converts raw source input into a normalized document.
type Normalizer interface {
	// Normalize converts raw input into canonical plain text plus metadata.
	// Returns EUNSUPPORTED when the declared content type is not recognized
	// or when markup extraction fails. Empty text is a valid outcome.
	Normalize(raw string, meta SourceMeta) (*NormalizedDoc, error)
}

// ExtractResult holds the content extracted from a markup source.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from markup sources, removing boilerplate.
type Extractor interface {
	// Extract processes raw markup and returns the main content.
	Extract(raw string) (*ExtractResult, error)
}

// Converter converts clean HTML into plain text.
type Converter interface {
	// Convert transforms HTML content into text.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
