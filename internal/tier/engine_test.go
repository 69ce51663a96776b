package tier

import (
	"path/filepath"
	"testing"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

func perf(tracked, successful int, totalGain float64) *models.WhalePerformance {
	return &models.WhalePerformance{
		TokensTracked:   tracked,
		SuccessfulCalls: successful,
		TotalGain:       totalGain,
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name  string
		stats *models.WhalePerformance
		want  int
	}{
		{"nil stats", nil, 0},
		{"too little history", perf(4, 4, 400), 0},
		// 60% SR, 60 avg, 10 tracked
		{"elite", perf(10, 6, 600), 1},
		// same rates but only 5 tracked: falls through to tier 2
		{"elite rates thin history", perf(5, 3, 300), 2},
		// 50% SR, 30 avg
		{"active", perf(10, 5, 300), 2},
		// 40% SR, 10 avg
		{"semi active", perf(10, 4, 100), 3},
		// 20% SR
		{"dormant", perf(10, 2, 50), 4},
		{"boundary 60/50 exactly", perf(10, 6, 500), 1},
		{"just under elite sr", perf(100, 59, 5000), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.stats); got != tt.want {
				t.Errorf("Recommend() = %d, want %d", got, tt.want)
			}
		})
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.Roster, *store.State) {
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
	return NewEngine(roster, state), roster, state
}

func TestRunPromotesAndDemotes(t *testing.T) {
	engine, roster, state := newTestEngine(t)

	roster.Add(models.Whale{Address: "up", Chain: models.ChainSolana, Tier: 3})
	roster.Add(models.Whale{Address: "down", Chain: models.ChainSolana, Tier: 1})
	roster.Add(models.Whale{Address: "fresh", Chain: models.ChainSolana, Tier: 2})

	state.Update(func(s *store.BotState) {
		s.Performance["up"] = perf(10, 6, 600)   // earns tier 1
		s.Performance["down"] = perf(10, 1, 20)  // earns tier 4
		s.Performance["fresh"] = perf(2, 2, 400) // too little history
	})

	changed := engine.Run()
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}

	if w, _ := roster.Get("up"); w.Tier != 1 {
		t.Errorf("up tier = %d, want 1", w.Tier)
	}
	if w, _ := roster.Get("down"); w.Tier != 4 {
		t.Errorf("down tier = %d, want 4", w.Tier)
	}
	if w, _ := roster.Get("fresh"); w.Tier != 2 {
		t.Errorf("fresh whale must keep its tier, got %d", w.Tier)
	}

	state.View(func(s *store.BotState) {
		if len(s.TierChanges) != 2 {
			t.Fatalf("tier change log len = %d, want 2", len(s.TierChanges))
		}
		for _, rec := range s.TierChanges {
			if rec.Reason == "" {
				t.Error("tier change record missing reason")
			}
		}
	})
}

func TestRunNoChanges(t *testing.T) {
	engine, roster, state := newTestEngine(t)

	roster.Add(models.Whale{Address: "steady", Chain: models.ChainSolana, Tier: 2})
	state.Update(func(s *store.BotState) {
		s.Performance["steady"] = perf(10, 5, 300) // already tier 2
	})

	if changed := engine.Run(); changed != 0 {
		t.Errorf("changed = %d, want 0", changed)
	}

	state.View(func(s *store.BotState) {
		if len(s.TierChanges) != 0 {
			t.Error("no-op run must not log tier changes")
		}
	})
}
