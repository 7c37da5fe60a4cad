package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPattern = `Sizes: S (M, L)

Materials: worsted weight wool, 4mm needles.
Gauge: 20 sts x 28 rows = 10 cm in stockinette.

Abbreviations: k = knit, p = purl.

Cast on 40 (44, 48) sts.

Row 1 (RS): K to end. (40, 44, 48 sts)
Row 2 (WS): P to end. (40, 44, 48 sts)
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() {
		if srv.rateLimiter != nil {
			srv.rateLimiter.Stop()
		}
	})
	return srv
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleAnalyzeText(t *testing.T) {
	srv := newTestServer(t)

	payload, _ := json.Marshal(AnalyzeTextRequest{Text: testPattern})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-text", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, []string{"S", "M", "L"}, resp.Report.Sizes)
	assert.Equal(t, 40, resp.Report.CastOnCounts["S"])
	assert.NotNil(t, resp.Lint)
	assert.Nil(t, resp.AnalysisID)
}

func TestHandleAnalyzeText_EmptyBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-text", strings.NewReader(`{"text": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeText_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-text", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("pattern", "hat.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(testPattern))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, 3, resp.Report.Summary.Sizes)
}

func TestHandleAnalyzeFile_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeFile_UnsupportedType(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("pattern", "pattern.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeURL_InvalidURL(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-url",
		strings.NewReader(`{"url": "not a url"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthEndpointsWithoutDatabase(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		w := httptest.NewRecorder()
		srv.routes().ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestAnalysesWithoutDatabase(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatus(&ErrEmailAlreadyExists{Email: "a@b.c"}))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(&ErrInvalidCredentials{}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrUserNotFound{}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrAnalysisNotFound{}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "text", Message: "required"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
