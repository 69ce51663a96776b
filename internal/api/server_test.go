package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Roster, *store.State) {
	t.Helper()
	dir := t.TempDir()

	roster, err := store.LoadRoster(filepath.Join(dir, "whales.json"))
	if err != nil {
		t.Fatal(err)
	}
	state, err := store.LoadState(filepath.Join(dir, "state.json"), 0)
	if err != nil {
		t.Fatal(err)
	}

	return NewServer(":0", roster, state), roster, state
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" || resp.Version == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestPingEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/ping", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, roster, state := newTestServer(t)

	roster.Add(models.Whale{Address: "w1", Chain: models.ChainSolana, Tier: 1})
	roster.Add(models.Whale{Address: "w2", Chain: models.ChainSolana, Tier: 3})
	state.Update(func(st *store.BotState) {
		st.AlertsSent = 5
		st.TokensFiltered = 12
		st.Paused = true
		st.TrackedTokens["tok1"] = &models.TrackedToken{Address: "tok1", Status: models.TokenStatusActive}
	})

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.WhalesTotal != 2 || resp.AlertsSent != 5 || resp.TokensFiltered != 12 {
		t.Errorf("stats = %+v", resp)
	}
	if !resp.Paused {
		t.Error("paused flag not reported")
	}
	if resp.WhalesByTier["tier_1"] != 1 || resp.WhalesByTier["tier_3"] != 1 {
		t.Errorf("tier breakdown = %v", resp.WhalesByTier)
	}
	if resp.TokensTracked != 1 {
		t.Errorf("tokens tracked = %d", resp.TokensTracked)
	}
}

func TestWhalesEndpoint(t *testing.T) {
	s, roster, _ := newTestServer(t)
	roster.Add(models.Whale{Address: "w1", Chain: models.ChainSolana, Tier: 2})

	req := httptest.NewRequest("GET", "/api/v1/whales", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var whales []models.Whale
	if err := json.Unmarshal(rec.Body.Bytes(), &whales); err != nil {
		t.Fatal(err)
	}
	if len(whales) != 1 || whales[0].Address != "w1" {
		t.Errorf("whales = %+v", whales)
	}
}
