package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
)

func rosterPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "whales.json")
}

func TestLoadRosterMissingFile(t *testing.T) {
	r, err := LoadRoster(rosterPath(t))
	if err != nil {
		t.Fatalf("missing roster file must not be an error: %v", err)
	}
	if r.Count() != 0 {
		t.Errorf("expected empty roster, got %d whales", r.Count())
	}
}

func TestLoadRosterNormalizes(t *testing.T) {
	path := rosterPath(t)
	raw := `[{"address":"abc","chain":"sol","tier":0},{"address":"def","chain":"base","tier":2}]`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRoster(path)
	if err != nil {
		t.Fatal(err)
	}

	w, ok := r.Get("abc")
	if !ok {
		t.Fatal("whale abc not loaded")
	}
	if w.Chain != models.ChainSolana {
		t.Errorf("chain alias not normalized: %q", w.Chain)
	}
	if w.Tier != 3 {
		t.Errorf("invalid tier not defaulted: %d", w.Tier)
	}
}

func TestAddRejectsDuplicate(t *testing.T) {
	r, _ := LoadRoster(rosterPath(t))

	whale := models.Whale{Address: "abc", Chain: models.ChainSolana, Tier: 1}
	if err := r.Add(whale); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := r.Add(whale); err == nil {
		t.Error("duplicate add should be rejected")
	}
	if r.Count() != 1 {
		t.Errorf("count = %d, want 1", r.Count())
	}
}

func TestAddPersistsWholeFile(t *testing.T) {
	path := rosterPath(t)
	r, _ := LoadRoster(path)

	if err := r.Add(models.Whale{Address: "abc", Chain: models.ChainSolana, Tier: 1}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("roster file not written: %v", err)
	}

	var whales []models.Whale
	if err := json.Unmarshal(raw, &whales); err != nil {
		t.Fatalf("roster file not valid JSON: %v", err)
	}
	if len(whales) != 1 || whales[0].Address != "abc" {
		t.Errorf("unexpected roster contents: %+v", whales)
	}
	if whales[0].AddedDate == "" {
		t.Error("added date should be defaulted")
	}
}

func TestRemove(t *testing.T) {
	r, _ := LoadRoster(rosterPath(t))
	r.Add(models.Whale{Address: "abc", Chain: models.ChainSolana, Tier: 1})

	removed, err := r.Remove("abc")
	if err != nil || !removed {
		t.Fatalf("remove = (%v, %v), want (true, nil)", removed, err)
	}

	removed, err = r.Remove("missing")
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("removing an unknown address should report false")
	}
}

func TestApplyTiers(t *testing.T) {
	path := rosterPath(t)
	r, _ := LoadRoster(path)
	r.Add(models.Whale{Address: "a1", Chain: models.ChainSolana, Tier: 3})
	r.Add(models.Whale{Address: "a2", Chain: models.ChainSolana, Tier: 3})
	r.Add(models.Whale{Address: "a3", Chain: models.ChainSolana, Tier: 2})

	changed, err := r.ApplyTiers(map[string]int{
		"a1":      1,
		"a3":      2, // already there, no change
		"unknown": 4, // not in roster, ignored
	})
	if err != nil {
		t.Fatal(err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}

	// Survives reload.
	reloaded, err := LoadRoster(path)
	if err != nil {
		t.Fatal(err)
	}
	w, _ := reloaded.Get("a1")
	if w.Tier != 1 {
		t.Errorf("tier change not persisted: tier = %d", w.Tier)
	}
}

func TestListByTier(t *testing.T) {
	r, _ := LoadRoster(rosterPath(t))
	r.Add(models.Whale{Address: "a1", Chain: models.ChainSolana, Tier: 1})
	r.Add(models.Whale{Address: "a2", Chain: models.ChainSolana, Tier: 2})
	r.Add(models.Whale{Address: "a3", Chain: models.ChainSolana, Tier: 1})

	tier1 := r.ListByTier(1)
	if len(tier1) != 2 {
		t.Errorf("tier 1 count = %d, want 2", len(tier1))
	}
	if len(r.ListByTier(4)) != 0 {
		t.Error("tier 4 should be empty")
	}
}
