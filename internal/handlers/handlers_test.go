package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactiq/internal/aggregator"
	"contactiq/internal/models"
)

func seededAggregator(t *testing.T) *aggregator.Aggregator {
	t.Helper()

	agg := aggregator.New(zerolog.Nop())
	now := time.Now().UTC()

	records := []models.RawRecord{
		{Email: "jane@acme.io", Name: "Jane Doe", Kind: models.KindSent, Timestamp: now},
		{Email: "jane@acme.io", Kind: models.KindReceived, Timestamp: now},
		{Email: "jane.doe@acme.io", Name: "Jane Doe", Kind: models.KindReceived, Timestamp: now},
		{Email: "bob@other.com", Name: "Bob Smith", Kind: models.KindReceived, Timestamp: now},
	}
	agg.IngestBatch(records, "gmail_a")
	return agg
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}

	require.NoError(t, handler(c))
	return rec
}

func TestHealthHandler(t *testing.T) {
	rec := doJSON(t, HealthHandler("1.2.3"), http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestDBHealthHandlerWithoutDB(t *testing.T) {
	rec := doJSON(t, DBHealthHandler(nil), http.MethodGet, "/api/health/db", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp models.DBHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
}

func TestListContactsHandler(t *testing.T) {
	agg := seededAggregator(t)
	rec := doJSON(t, ListContactsHandler(agg), http.MethodGet, "/api/contacts", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "bob@other.com", records[0]["email"])
}

func TestGetContactHandler(t *testing.T) {
	agg := seededAggregator(t)

	rec := doJSON(t, GetContactHandler(agg), http.MethodGet, "/api/contacts/jane@acme.io", "",
		map[string]string{"email": "Jane@Acme.IO"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var contact models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contact))
	assert.Equal(t, "jane@acme.io", contact.Email)
	assert.Equal(t, 2, contact.Stats.Frequency)
}

func TestGetContactHandlerNotFound(t *testing.T) {
	agg := seededAggregator(t)
	rec := doJSON(t, GetContactHandler(agg), http.MethodGet, "/api/contacts/x", "",
		map[string]string{"email": "ghost@acme.io"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScoreContactHandler(t *testing.T) {
	agg := seededAggregator(t)
	rec := doJSON(t, ScoreContactHandler(agg), http.MethodGet, "/api/contacts/jane@acme.io/score", "",
		map[string]string{"email": "jane@acme.io"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var score models.ContactScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Greater(t, score.OverallScore, 0.0)
	assert.LessOrEqual(t, score.OverallScore, 1.0)
	assert.Greater(t, score.RelationshipStrength, 0.0)
}

func TestScoreContactHandlerScoped(t *testing.T) {
	agg := seededAggregator(t)
	rec := doJSON(t, ScoreContactHandler(agg), http.MethodGet,
		"/api/contacts/jane@acme.io/score?account=outlook_b", "",
		map[string]string{"email": "jane@acme.io"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var score models.ContactScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	// no interactions through that account at all
	assert.Zero(t, score.RelationshipStrength)
}

func TestIngestHandler(t *testing.T) {
	agg := aggregator.New(zerolog.Nop())
	body := `{"account_id":"gmail_a","records":[
		{"email":"jane@acme.io","name":"Jane","kind":"received","timestamp":"2024-04-02T15:04:05Z"},
		{"email":"","kind":"received","timestamp":"2024-04-02T15:04:05Z"}
	]}`

	rec := doJSON(t, IngestHandler(agg), http.MethodPost, "/api/records", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Accepted)
	assert.Equal(t, 1, resp.Rejected)
	assert.Equal(t, 1, resp.Contacts)
}

func TestIngestHandlerRequiresAccount(t *testing.T) {
	agg := aggregator.New(zerolog.Nop())
	rec := doJSON(t, IngestHandler(agg), http.MethodPost, "/api/records", `{"records":[]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergePreviewHandler(t *testing.T) {
	agg := seededAggregator(t)
	body := `{"primary":"jane@acme.io","secondary":"jane.doe@acme.io"}`

	rec := doJSON(t, MergePreviewHandler(agg), http.MethodPost, "/api/contacts/merge/preview", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.MergeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Similarity, 0.0)
	assert.Equal(t, "jane@acme.io", resp.Merged["email"])

	// preview does not commit
	assert.Equal(t, 3, agg.Len())
	_, ok := agg.Get("jane.doe@acme.io")
	assert.True(t, ok)
}

func TestMergeCommitHandler(t *testing.T) {
	agg := seededAggregator(t)
	body := `{"primary":"jane@acme.io","secondary":"jane.doe@acme.io"}`

	rec := doJSON(t, MergeCommitHandler(agg), http.MethodPost, "/api/contacts/merge", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, agg.Len())
	combined, ok := agg.Get("jane@acme.io")
	require.True(t, ok)
	assert.Equal(t, 3, combined.Stats.Frequency)
	_, ok = agg.Get("jane.doe@acme.io")
	assert.False(t, ok)
}

func TestMergeHandlerValidation(t *testing.T) {
	agg := seededAggregator(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"same contact twice", `{"primary":"jane@acme.io","secondary":"jane@acme.io"}`, http.StatusBadRequest},
		{"missing secondary", `{"primary":"jane@acme.io"}`, http.StatusBadRequest},
		{"unknown primary", `{"primary":"ghost@acme.io","secondary":"jane@acme.io"}`, http.StatusNotFound},
		{"unknown secondary", `{"primary":"jane@acme.io","secondary":"ghost@acme.io"}`, http.StatusNotFound},
		{"malformed body", `{"primary":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, MergeCommitHandler(agg), http.MethodPost, "/api/contacts/merge", tt.body, nil)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
