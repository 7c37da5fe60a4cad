package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/knit-tech-editor/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the HTTP request fails.
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when text extraction fails.
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches a pattern page, extracts its text and cleans it.
// If useBrowser is true and the HTTP fetch yields too little text, the page
// is re-rendered in a headless browser before extraction.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	textContent, err := fetch.ExtractMainText(result.HTML, fetch.PatternPageSelectors())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	usedBrowser := false
	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering",
				len(textContent), fetch.MinContentLength)
		}
		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else if rendered, exErr := fetch.ExtractMainText(browserHTML, fetch.PatternPageSelectors()); exErr == nil {
			textContent = rendered
			usedBrowser = true
		}
	}

	cleaned := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleaned))
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Browser = usedBrowser
	return cleaned, metadata, nil
}
