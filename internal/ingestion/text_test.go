package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTextNormalizesEndings(t *testing.T) {
	got := CleanText("Row 1: Knit.\r\nRow 2: Purl.\rRow 3: Knit.")
	assert.Equal(t, "Row 1: Knit.\nRow 2: Purl.\nRow 3: Knit.", got)
}

func TestCleanTextDropsFurniture(t *testing.T) {
	got := CleanText(`Simple Hat
Page 1 of 3
Print this pattern
Row 1: K2, p2.
© 2026 Some Designer
All rights reserved.
Row 2: Knit.`)

	assert.Equal(t, "Simple Hat\nRow 1: K2, p2.\nRow 2: Knit.", got)
}

func TestCleanTextCollapsesSpacesAndBlanks(t *testing.T) {
	got := CleanText("Row 1:   K2,\tp2.\n\n\n\nRow 2: Knit.")
	assert.Equal(t, "Row 1: K2, p2.\n\nRow 2: Knit.", got)
}

func TestCleanTextEmpty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n \n"))
}

func TestReadPatternFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hat.txt")
	require.NoError(t, os.WriteFile(path, []byte("Cast on 57 sts.\r\nRow 1: Knit.\n"), 0o644))

	text, meta, err := ReadPatternFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Cast on 57 sts.\nRow 1: Knit.", text)
	require.NotNil(t, meta)
	assert.NotEmpty(t, meta.Hash)
}

func TestReadPatternFileHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hat.html")
	html := `<html><body><article><p>Cast on 57 sts.</p><p>Row 1: Knit.</p></article></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	text, _, err := ReadPatternFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Cast on 57 sts.")
	assert.Contains(t, text, "Row 1: Knit.")
}

func TestReadPatternFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hat.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	_, _, err := ReadPatternFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported pattern file type")
}

func TestReadPatternFileMissing(t *testing.T) {
	_, _, err := ReadPatternFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}
