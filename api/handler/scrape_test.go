package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/models"
	"github.com/pagelens/pagelens/selector"
)

// stubService returns canned engine results to the handlers.
type stubService struct {
	content *models.ScrapedContent
	err     error
	stats   models.EngineStats
	calls   int
}

func (s *stubService) GetContent(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapedContent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.content, nil
}

func (s *stubService) Stats() models.EngineStats {
	return s.stats
}

func postJSON(t *testing.T, h gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST(path, h)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScrape_Success(t *testing.T) {
	svc := &stubService{content: &models.ScrapedContent{
		Content:    "yeah baby",
		Selector:   selector.Selector{Path: ".a-good-selector", Status: selector.StatusValid},
		Screenshot: "data:image/gif;base64,R0lGOD==",
	}}

	w := postJSON(t, Scrape(svc), "/scrape", models.ScrapeRequest{
		Selector: selector.Selector{Path: ".a-good-selector"},
		URL:      "https://example.test/page",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "yeah baby", resp.Content)
	require.NotNil(t, resp.Selector)
	assert.Equal(t, selector.StatusValid, resp.Selector.Status)
	assert.Nil(t, resp.Error)
}

func TestScrape_FailureStatusMapping(t *testing.T) {
	tests := []struct {
		status   models.Status
		wantCode int
	}{
		{models.StatusInvalidSelector, http.StatusBadRequest},
		{models.StatusNoContent, http.StatusNotFound},
		{models.StatusElementNotFound, http.StatusNotFound},
		{models.StatusError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		sel := selector.Selector{Path: ".x"}
		svc := &stubService{err: models.NewScrapeError(tt.status, "boom", sel, nil)}

		w := postJSON(t, Scrape(svc), "/scrape", models.ScrapeRequest{
			Selector: sel,
			URL:      "https://example.test/page",
		})

		assert.Equal(t, tt.wantCode, w.Code, "status %s", tt.status)

		var resp models.ScrapeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, tt.status, resp.Error.Status)
	}
}

func TestScrape_RejectsMalformedBody(t *testing.T) {
	svc := &stubService{}

	w := postJSON(t, Scrape(svc), "/scrape", map[string]any{"url": "not a url"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls, "engine must not run for malformed requests")
}

func TestValidateSelector_Valid(t *testing.T) {
	w := postJSON(t, ValidateSelector(), "/validate", models.ValidateRequest{
		Selector: selector.Selector{Path: ".a-good-selector"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, selector.StatusValid, resp.Selector.Status)
}

func TestValidateSelector_Invalid(t *testing.T) {
	w := postJSON(t, ValidateSelector(), "/validate", models.ValidateRequest{
		Selector: selector.Selector{Path: "..a-bad-selector"},
	})

	// A determinate invalid result is still a successful validation call.
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, selector.StatusInvalid, resp.Selector.Status)
}

func TestValidateSelector_UnsupportedLanguage(t *testing.T) {
	w := postJSON(t, ValidateSelector(), "/validate", models.ValidateRequest{
		Selector: selector.Selector{Path: "//div", Language: "xpath"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "xpath")
}
