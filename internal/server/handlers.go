package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonathan/knit-tech-editor/internal/db"
	"github.com/jonathan/knit-tech-editor/internal/ingestion"
	"github.com/jonathan/knit-tech-editor/internal/lint"
	"github.com/jonathan/knit-tech-editor/internal/pipeline"
	"github.com/jonathan/knit-tech-editor/internal/server/middleware"
	"github.com/jonathan/knit-tech-editor/internal/types"
)

// maxUploadBytes caps multipart pattern uploads at 5 MB
const maxUploadBytes = 5 << 20

// AnalyzeTextRequest represents the request body for /api/analyze-text
type AnalyzeTextRequest struct {
	Text   string   `json:"text" validate:"required,min=1"`
	Sizes  []string `json:"sizes,omitempty"`
	UseLLM bool     `json:"use_llm,omitempty"`
}

// AnalyzeURLRequest represents the request body for /api/analyze-url
type AnalyzeURLRequest struct {
	URL        string   `json:"url" validate:"required,url"`
	Sizes      []string `json:"sizes,omitempty"`
	UseLLM     bool     `json:"use_llm,omitempty"`
	UseBrowser bool     `json:"use_browser,omitempty"`
}

// AnalyzeResponse bundles the report and lint findings for the API caller.
// AnalysisID is set when the request was authenticated and the report was
// persisted.
type AnalyzeResponse struct {
	Report     *types.Report       `json:"report"`
	Lint       []lint.Issue        `json:"lint"`
	Metadata   *ingestion.Metadata `json:"metadata,omitempty"`
	AnalysisID *uuid.UUID          `json:"analysis_id,omitempty"`
}

// handleAnalyzeText analyzes a pattern supplied as raw text
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := pipeline.Run(r.Context(), pipeline.Options{
		Text:      req.Text,
		SizeHints: req.Sizes,
		UseLLM:    req.UseLLM && s.apiKey != "",
		APIKey:    s.apiKey,
	})
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.analyzeResponse(w, r, result, "text", "")
}

// handleAnalyzeFile analyzes an uploaded pattern file (.txt, .md or .html)
func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("pattern")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "pattern file is required")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	switch ext {
	case ".txt", ".md", ".html", ".htm", "":
	default:
		s.errorResponse(w, http.StatusBadRequest, "unsupported pattern file type: "+ext)
		return
	}

	// The ingestion layer works on paths, so spool the upload to disk
	tmp, err := os.CreateTemp("", "pattern-upload-*"+ext)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		s.errorResponse(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	tmp.Close()

	useLLM := r.FormValue("use_llm") == "true"
	result, err := pipeline.Run(r.Context(), pipeline.Options{
		FilePath: tmp.Name(),
		UseLLM:   useLLM && s.apiKey != "",
		APIKey:   s.apiKey,
	})
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.analyzeResponse(w, r, result, header.Filename, "")
}

// handleAnalyzeURL fetches a pattern page and analyzes it
func (s *Server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := pipeline.Run(r.Context(), pipeline.Options{
		URL:        req.URL,
		SizeHints:  req.Sizes,
		UseLLM:     req.UseLLM && s.apiKey != "",
		APIKey:     s.apiKey,
		UseBrowser: req.UseBrowser,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	s.analyzeResponse(w, r, result, req.URL, req.URL)
}

// analyzeResponse persists the report for authenticated callers and writes
// the analyze payload.
func (s *Server) analyzeResponse(w http.ResponseWriter, r *http.Request, result *pipeline.Result, sourceName, sourceURL string) {
	resp := AnalyzeResponse{
		Report:   result.Report,
		Lint:     result.Lint,
		Metadata: result.Metadata,
	}
	if resp.Lint == nil {
		resp.Lint = []lint.Issue{}
	}

	if id := s.maybePersist(r, result, sourceName, sourceURL); id != nil {
		resp.AnalysisID = id
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// maybePersist stores the finished report when the request carries a valid
// bearer token and a database is configured. Persistence is best effort:
// a storage failure never fails the analysis itself.
func (s *Server) maybePersist(r *http.Request, result *pipeline.Result, sourceName, sourceURL string) *uuid.UUID {
	if s.db == nil || s.jwtService == nil {
		return nil
	}

	token, ok := middleware.BearerToken(r)
	if !ok {
		return nil
	}
	userID, err := s.jwtService.Authenticate(token)
	if err != nil {
		return nil
	}

	reportJSON, err := json.Marshal(result.Report)
	if err != nil {
		log.Printf("Failed to marshal report for storage: %v", err)
		return nil
	}

	var title string
	if result.Metadata != nil {
		title = result.Metadata.Title
	}

	id, err := s.db.SaveAnalysis(r.Context(), &db.AnalysisInput{
		UserID:            userID,
		SourceName:        sourceName,
		SourceURL:         sourceURL,
		Title:             title,
		Report:            reportJSON,
		Sizes:             result.Report.Sizes,
		RowsParsed:        result.Report.Summary.RowsParsed,
		StitchCountErrors: result.Report.Summary.StitchCountErrors,
		TotalWarnings:     result.Report.Summary.TotalWarnings,
	})
	if err != nil {
		log.Printf("Failed to persist analysis: %v", err)
		return nil
	}
	return &id
}

// handleListAnalyses returns the caller's stored analyses, newest first
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	analyses, err := s.db.ListAnalyses(r.Context(), userID, 50)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if analyses == nil {
		analyses = []db.Analysis{}
	}
	s.jsonResponse(w, http.StatusOK, analyses)
}

// handleGetAnalysis returns one stored analysis including the full report
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	analysis, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if analysis == nil || analysis.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, (&ErrAnalysisNotFound{ID: id}).Error())
		return
	}

	var report json.RawMessage = analysis.Report
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analysis": analysis,
		"report":   report,
	})
}

// handleDeleteAnalysis removes one of the caller's stored analyses
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	if err := s.db.DeleteAnalysis(r.Context(), id, userID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
