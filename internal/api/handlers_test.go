package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecozero/sustainpack/internal/emission"
	"github.com/ecozero/sustainpack/internal/packaging"
	"github.com/ecozero/sustainpack/internal/store"
)

type memStore struct {
	activities      []store.ActivityLog
	recommendations []store.RecommendationLog
}

func (m *memStore) SaveActivity(_ context.Context, entry store.ActivityLog) error {
	m.activities = append(m.activities, entry)
	return nil
}

func (m *memStore) ListActivities(_ context.Context, userID string, _ int) ([]store.ActivityLog, error) {
	var out []store.ActivityLog
	for _, entry := range m.activities {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *memStore) SaveRecommendation(_ context.Context, userID, category string, result packaging.Result) (string, error) {
	m.recommendations = append(m.recommendations, store.RecommendationLog{
		ID:              "test-id",
		UserID:          userID,
		ProductCategory: category,
		Result:          result,
	})
	return "test-id", nil
}

func (m *memStore) ListRecommendations(_ context.Context, userID string, _ int) ([]store.RecommendationLog, error) {
	var out []store.RecommendationLog
	for _, entry := range m.recommendations {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func newTestHandler(st Store) *Handler {
	logger := zerolog.Nop()
	resolver := emission.NewResolver(emission.NewFactorTable(nil), logger)
	calculator := emission.NewCalculator(resolver, nil, logger)
	recommender := packaging.NewRecommender(nil, logger)
	return NewHandler(calculator, recommender, st, logger, true)
}

func TestHandleEstimate(t *testing.T) {
	handler := newTestHandler(nil)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	body := `{"category":"TRANSPORT","activity":"Electric Car","amount":100,"unit":"KM"}`
	resp, err := http.Post(srv.URL+"/v1/estimate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var out estimateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.InDelta(t, 5.3, out.CO2eKg, 1e-9)
	assert.Equal(t, emission.SourceLocal, out.Source)
}

// TestHandleEstimate_UnknownCategoryStillSucceeds pins the availability
// contract: unresolvable lookups degrade to a default factor, not an error.
func TestHandleEstimate_UnknownCategoryStillSucceeds(t *testing.T) {
	handler := newTestHandler(nil)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	body := `{"category":"MYSTERY","activity":"unknowable","amount":4,"unit":"KG"}`
	resp, err := http.Post(srv.URL+"/v1/estimate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out estimateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.InDelta(t, 2.0, out.CO2eKg, 1e-9) // 4 x DefaultFactor
}

func TestHandleEstimate_PersistsWhenUserIDPresent(t *testing.T) {
	st := &memStore{}
	handler := newTestHandler(st)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	body := `{"category":"FOOD","activity":"chicken","amount":250,"unit":"G","user_id":"user-1"}`
	resp, err := http.Post(srv.URL+"/v1/estimate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, st.activities, 1)
	assert.Equal(t, "user-1", st.activities[0].UserID)
	assert.InDelta(t, 1.725, st.activities[0].CO2eKg, 1e-9)
	assert.Equal(t, emission.SourceLocal, st.activities[0].Source)
}

func TestHandleEstimate_BadBody(t *testing.T) {
	handler := newTestHandler(nil)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/estimate", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleRecommendation(t *testing.T) {
	st := &memStore{}
	handler := newTestHandler(st)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	body := `{
		"product_category": "Electronics",
		"fragility_level": "High",
		"sustainability_priority": "5",
		"budget_per_unit": "50",
		"shipping_distance": "national",
		"monthly_shipping_volume": "1000",
		"user_id": "user-2"
	}`
	resp, err := http.Post(srv.URL+"/v1/recommendations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out recommendationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, packaging.SourceLocal, out.Source)
	assert.Len(t, out.RecommendedMaterials, 3)
	assert.LessOrEqual(t, out.EstimatedCost, 50.0)

	require.Len(t, st.recommendations, 1)
	assert.Equal(t, "user-2", st.recommendations[0].UserID)
}

func TestListEndpointsRequireUserID(t *testing.T) {
	handler := newTestHandler(&memStore{})
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	for _, path := range []string{"/v1/activities", "/v1/recommendations"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestListActivities(t *testing.T) {
	st := &memStore{activities: []store.ActivityLog{
		{UserID: "user-1", Category: "FOOD", Activity: "rice", Amount: 1, Unit: "KG", CO2eKg: 4},
		{UserID: "user-2", Category: "FOOD", Activity: "beef", Amount: 1, Unit: "KG", CO2eKg: 27},
	}}
	handler := newTestHandler(st)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/activities?user_id=user-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []store.ActivityLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "rice", out[0].Activity)
}

func TestListEndpointsWithoutStore(t *testing.T) {
	handler := newTestHandler(nil)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/activities?user_id=user-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(nil)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
