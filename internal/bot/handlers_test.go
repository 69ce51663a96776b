package bot

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

const (
	adminID  int64 = 1000
	randomID int64 = 2000
)

func newTestHandler(t *testing.T) (*Handler, *store.Roster, *store.State) {
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

	return NewHandler(roster, state, adminID), roster, state
}

func TestUnknownCommand(t *testing.T) {
	h, _, _ := newTestHandler(t)

	if got := h.HandleCommand("/bogus", randomID); got != unknownCommandMessage {
		t.Errorf("response = %q, want %q", got, unknownCommandMessage)
	}
	if got := h.HandleCommand("", randomID); got != unknownCommandMessage {
		t.Errorf("empty input response = %q", got)
	}
}

func TestBotNameSuffixStripped(t *testing.T) {
	h, _, _ := newTestHandler(t)

	plain := h.HandleCommand("/help", randomID)
	suffixed := h.HandleCommand("/help@WhaleTrackerBot", randomID)
	if plain != suffixed {
		t.Error("/help@BotName should behave like /help")
	}
}

func TestPublicCommandsRespond(t *testing.T) {
	h, roster, state := newTestHandler(t)
	roster.Add(models.Whale{Address: "whale1addrxyz", Chain: models.ChainSolana, Tier: 1})
	state.Update(func(s *store.BotState) {
		s.AlertsSent = 3
	})

	for _, cmd := range []string{"/start", "/help", "/guide", "/stats", "/tiers", "/tier1", "/tracked", "/topwhales", "/multibuys", "/promotions", "/lastbuys", "/filters"} {
		if got := h.HandleCommand(cmd, randomID); got == "" || got == unknownCommandMessage {
			t.Errorf("%s returned %q", cmd, got)
		}
	}
}

func TestAdminGatingDoesNotMutate(t *testing.T) {
	h, roster, state := newTestHandler(t)

	commands := []string{
		"/pause",
		"/resume",
		"/setfilter mc_min 1",
		"/addwhale someaddress solana",
		"/removewhale someaddress",
	}

	for _, cmd := range commands {
		if got := h.HandleCommand(cmd, randomID); got != adminDeniedMessage {
			t.Errorf("%s by non-admin = %q, want %q", cmd, got, adminDeniedMessage)
		}
	}

	state.View(func(s *store.BotState) {
		if s.Paused {
			t.Error("denied /pause must not mutate state")
		}
		if s.Filters != models.DefaultFilters() {
			t.Error("denied /setfilter must not mutate filters")
		}
	})
	if roster.Count() != 0 {
		t.Error("denied /addwhale must not mutate roster")
	}
}

func TestPauseResume(t *testing.T) {
	h, _, state := newTestHandler(t)

	h.HandleCommand("/pause", adminID)
	state.View(func(s *store.BotState) {
		if !s.Paused {
			t.Error("admin /pause should pause")
		}
	})

	h.HandleCommand("/resume", adminID)
	state.View(func(s *store.BotState) {
		if s.Paused {
			t.Error("admin /resume should resume")
		}
	})
}

func TestSetFilterAppliesImmediately(t *testing.T) {
	h, _, state := newTestHandler(t)

	resp := h.HandleCommand("/setfilter mc_min 250000", adminID)
	if !strings.Contains(resp, "mc_min") {
		t.Errorf("unexpected response: %q", resp)
	}

	state.View(func(s *store.BotState) {
		if s.Filters.MCMin != 250000 {
			t.Errorf("mc_min = %v, want 250000", s.Filters.MCMin)
		}
	})

	h.HandleCommand("/setfilter min_txns 75", adminID)
	state.View(func(s *store.BotState) {
		if s.Filters.MinTxns != 75 {
			t.Errorf("min_txns = %d, want 75", s.Filters.MinTxns)
		}
	})

	if got := h.HandleCommand("/setfilter nonsense 5", adminID); !strings.Contains(got, "Unknown filter") {
		t.Errorf("unknown filter response = %q", got)
	}
	if got := h.HandleCommand("/setfilter mc_min abc", adminID); got != "Invalid value" {
		t.Errorf("invalid value response = %q", got)
	}
	if got := h.HandleCommand("/setfilter", adminID); !strings.Contains(got, "Usage") {
		t.Errorf("missing args response = %q", got)
	}
}

func TestAddRemoveWhale(t *testing.T) {
	h, roster, _ := newTestHandler(t)

	if got := h.HandleCommand("/addwhale addr123 dogecoin", adminID); !strings.Contains(got, "solana or base") {
		t.Errorf("bad chain response = %q", got)
	}

	h.HandleCommand("/addwhale addr123 solana", adminID)
	if roster.Count() != 1 {
		t.Fatal("whale not added")
	}
	w, _ := roster.Get("addr123")
	if w.Tier != 1 || w.Source != "manual" {
		t.Errorf("added whale = %+v", w)
	}

	if got := h.HandleCommand("/addwhale addr123 solana", adminID); !strings.Contains(got, "Error") {
		t.Errorf("duplicate add response = %q", got)
	}

	if got := h.HandleCommand("/removewhale missing", adminID); got != "Not found" {
		t.Errorf("remove missing = %q", got)
	}

	h.HandleCommand("/removewhale addr123", adminID)
	if roster.Count() != 0 {
		t.Error("whale not removed")
	}
}

func TestTierDetail(t *testing.T) {
	h, roster, _ := newTestHandler(t)

	if got := h.HandleCommand("/tier2", randomID); got != "No whales in Tier 2" {
		t.Errorf("empty tier response = %q", got)
	}

	roster.Add(models.Whale{Address: "a1", Chain: models.ChainSolana, Tier: 2})
	roster.Add(models.Whale{Address: "a2", Chain: models.ChainBase, Tier: 2})

	got := h.HandleCommand("/tier2", randomID)
	if !strings.Contains(got, "TIER 2") || !strings.Contains(got, "Total: 2") {
		t.Errorf("tier detail = %q", got)
	}

	if got := h.HandleCommand("/tier9", randomID); got != unknownCommandMessage {
		t.Errorf("out-of-range tier = %q", got)
	}
}

func TestStatsShowsPaused(t *testing.T) {
	h, _, state := newTestHandler(t)

	if got := h.HandleCommand("/stats", randomID); strings.Contains(got, "PAUSED") {
		t.Error("running bot must not show PAUSED")
	}

	state.Update(func(s *store.BotState) {
		s.Paused = true
	})

	if got := h.HandleCommand("/stats", randomID); !strings.Contains(got, "PAUSED") {
		t.Error("paused bot should show PAUSED in /stats")
	}
}
