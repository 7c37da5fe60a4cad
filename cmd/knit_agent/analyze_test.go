package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAnalyzeFlags() {
	analyzeConfigPath = ""
	analyzeFile = ""
	analyzeURL = ""
	analyzeText = ""
	analyzeSizes = nil
	analyzeUseLLM = false
	analyzeAPIKey = ""
	analyzeUseBrowser = false
	analyzeJSON = false
	analyzeVerbose = false
}

func TestAnalyzeRequiresInput(t *testing.T) {
	resetAnalyzeFlags()

	err := runAnalyzeCmd(analyzeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestAnalyzeRejectsMultipleInputs(t *testing.T) {
	resetAnalyzeFlags()
	analyzeText = "Cast on 10 sts."
	analyzeCmd.Flags().Set("file", "pattern.txt")
	defer func() {
		resetAnalyzeFlags()
		analyzeCmd.Flags().Set("file", "")
	}()

	err := runAnalyzeCmd(analyzeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestAnalyzeFromText(t *testing.T) {
	resetAnalyzeFlags()
	analyzeCmd.Flags().Set("file", "")
	analyzeText = `Sizes: S (M)

Cast on 20 (24) sts.

Row 1: K to end. (20, 24 sts)
`
	analyzeJSON = true
	defer resetAnalyzeFlags()

	err := runAnalyzeCmd(analyzeCmd, nil)
	assert.NoError(t, err)
}
