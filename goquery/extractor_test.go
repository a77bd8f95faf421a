package goquery_test

import (
	"testing"

	"github.com/carefacts/carefacts"
	"github.com/carefacts/carefacts/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements carefacts.Extractor at compile time.
var _ carefacts.Extractor = (*goquery.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from title element", func(t *testing.T) {
		t.Parallel()

		html := `<html>
<head><title>Fast Fact #27: Dyspnea</title></head>
<body><p>Dyspnea at end of life is common.</p></body>
</html>`

		ext := goquery.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Fast Fact #27: Dyspnea", result.Title)
		assert.Contains(t, result.ContentHTML, "Dyspnea at end of life is common.")
	})

	t.Run("falls back to first h1 when title is missing", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>Constipation Management</h1>
<p>Start a stimulant laxative with opioids.</p>
</body></html>`

		ext := goquery.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Constipation Management", result.Title)
	})

	t.Run("removes script and style elements", func(t *testing.T) {
		t.Parallel()

		html := `<html>
<head><title>T</title><style>.x { color: red }</style></head>
<body>
<script>trackPageView();</script>
<p>Clinical content stays.</p>
<noscript>Enable JavaScript</noscript>
</body>
</html>`

		ext := goquery.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Clinical content stays.")
		assert.NotContains(t, result.ContentHTML, "trackPageView")
		assert.NotContains(t, result.ContentHTML, "Enable JavaScript")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := goquery.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, carefacts.EINVALID, carefacts.ErrorCode(err))
	})

	t.Run("handles fragment without body gracefully", func(t *testing.T) {
		t.Parallel()

		// goquery wraps fragments in html/body, so content survives.
		ext := goquery.NewExtractor()
		result, err := ext.Extract(`<p>Just a fragment.</p>`)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Just a fragment.")
	})
}
