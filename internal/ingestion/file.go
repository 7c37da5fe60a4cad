package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/knit-tech-editor/internal/fetch"
)

// ReadPatternFile reads a pattern from disk and returns cleaned text with
// metadata. HTML files go through the same extraction as fetched pages;
// everything else is treated as plain text.
func ReadPatternFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = fetch.ExtractMainText(text, fetch.PatternPageSelectors())
		if err != nil {
			return "", nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
		}
	case ".txt", ".md", "":
		// already text
	default:
		return "", nil, fmt.Errorf("unsupported pattern file type: %s", filepath.Ext(path))
	}

	cleaned := CleanText(text)
	return cleaned, NewMetadata(cleaned, ""), nil
}
