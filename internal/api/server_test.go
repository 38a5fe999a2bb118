package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/api/dto"
	"github.com/Veraticus/fintrack/internal/engine"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, db *testutil.TestDB) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := api.NewServer(api.DefaultConfig(), engine.New(db.Storage, logger), logger)
	return srv.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out))
	return out
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t, testutil.SetupTestDB(t, "alice"))

	rec := do(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}

func TestServer_Duplicates(t *testing.T) {
	db := testutil.SetupTestDB(t, "alice")
	db.Seed(
		testutil.NewTxn("alice", "4.50", "Coffee Shop", testutil.Day(2024, time.March, 1), testutil.WithID("a")),
		testutil.NewTxn("alice", "4.50", "Coffee Shop", testutil.Day(2024, time.March, 2), testutil.WithID("b")),
		testutil.NewTxn("alice", "60.00", "Electric bill", testutil.Day(2024, time.March, 2), testutil.WithID("c")),
		testutil.NewTxn("bob", "4.50", "Coffee Shop", testutil.Day(2024, time.March, 2), testutil.WithID("d")),
	)
	h := newTestServer(t, db)

	t.Run("scan", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/owners/alice/duplicates", "")
		require.Equal(t, http.StatusOK, rec.Code)

		report := decode[model.DuplicateReport](t, rec)
		require.Equal(t, 1, report.Count)
		require.Len(t, report.Duplicates, 1)
		assert.Equal(t, "b", report.Duplicates[0].Original.ID)
		assert.Equal(t, "a", report.Duplicates[0].Duplicate.ID)
		assert.Equal(t, 1, report.Duplicates[0].DaysDiff)
		assert.InDelta(t, 1.0, report.Duplicates[0].Similarity, 1e-9)
	})

	t.Run("scan of empty history", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/owners/carol/duplicates", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"duplicates":[],"count":0}`, rec.Body.String())
	})

	t.Run("check matches", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/owners/alice/duplicates/check",
			`{"amount":"4.52","description":"coffee shop","date":"2024-03-03"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		result := decode[model.DuplicateCheckResult](t, rec)
		assert.True(t, result.IsDuplicate)
		assert.Len(t, result.Matches, 2)
	})

	t.Run("check accepts numeric amount", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/owners/alice/duplicates/check",
			`{"amount":60,"description":"electric bill","date":"2024-03-02T08:00:00Z"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		result := decode[model.DuplicateCheckResult](t, rec)
		assert.True(t, result.IsDuplicate)
		require.Len(t, result.Matches, 1)
		assert.Equal(t, "c", result.Matches[0].ID)
	})

	t.Run("check without description never matches", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/owners/alice/duplicates/check",
			`{"amount":"4.50","date":"2024-03-02"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"matches":[],"is_duplicate":false}`, rec.Body.String())
	})

	t.Run("check rejects bad input", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			code string
		}{
			{name: "malformed json", body: `{"amount":`, code: dto.ErrCodeBadRequest},
			{name: "missing amount", body: `{"date":"2024-03-02"}`, code: dto.ErrCodeValidation},
			{name: "missing date", body: `{"amount":"1.00"}`, code: dto.ErrCodeValidation},
			{name: "bad date", body: `{"amount":"1.00","date":"March 2nd"}`, code: dto.ErrCodeValidation},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := do(t, h, http.MethodPost, "/api/owners/alice/duplicates/check", tt.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tt.code, decode[dto.APIError](t, rec).Code)
			})
		}
	})
}

func TestServer_Suggestions(t *testing.T) {
	db := testutil.SetupTestDB(t, "alice", "Groceries", "Dining")
	groceries := db.MustGetCategory("Groceries")
	dining := db.MustGetCategory("Dining")
	db.Seed(
		testutil.NewTxn("alice", "82.10", "Whole Foods Market", testutil.Day(2024, time.March, 1), testutil.WithCategory(groceries.ID)),
		testutil.NewTxn("alice", "64.00", "Whole Foods Market", testutil.Day(2024, time.March, 8), testutil.WithCategory(groceries.ID)),
		testutil.NewTxn("alice", "23.40", "Pizza Palace", testutil.Day(2024, time.March, 4), testutil.WithCategory(dining.ID)),
		testutil.NewTxn("alice", "5.00", "Parking meter", testutil.Day(2024, time.March, 5)),
	)
	h := newTestServer(t, db)

	t.Run("suggest", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/owners/alice/suggest?description=Whole%20Foods", "")
		require.Equal(t, http.StatusOK, rec.Code)

		suggestion := decode[model.CategorySuggestion](t, rec)
		require.NotNil(t, suggestion.CategoryID)
		assert.Equal(t, groceries.ID, *suggestion.CategoryID)
		assert.Equal(t, "Groceries", suggestion.CategoryName)
		assert.Equal(t, 2, suggestion.MatchCount)
		assert.Greater(t, suggestion.Confidence, 0.3)
		assert.LessOrEqual(t, suggestion.Confidence, 1.0)
	})

	t.Run("suggest without description", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/owners/alice/suggest", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"suggestion":null,"confidence":0,"match_count":0}`, rec.Body.String())
	})

	t.Run("patterns", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/owners/alice/category-patterns", "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[dto.CategoryPatternsResponse](t, rec)
		require.Equal(t, 2, resp.Count)
		assert.Equal(t, "Groceries", resp.Patterns[0].CategoryName)
		assert.Equal(t, 2, resp.Patterns[0].TransactionCount)
		assert.Equal(t, []string{"whole", "foods", "market"}, resp.Patterns[0].TopKeywords)
		assert.Equal(t, "Dining", resp.Patterns[1].CategoryName)
	})
}
