package tier

import (
	"fmt"
	"log"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

// A whale needs at least this many tracked calls before re-tiering applies.
const minTrackedForEval = 5

// Engine recomputes whale tiers from accumulated performance and rewrites
// the roster.
type Engine struct {
	roster *store.Roster
	state  *store.State
}

func NewEngine(roster *store.Roster, state *store.State) *Engine {
	return &Engine{roster: roster, state: state}
}

// Recommend returns the tier a whale's stats earn, or 0 when the whale has
// too little history to re-evaluate. Thresholds apply in order; first match
// wins.
func Recommend(stats *models.WhalePerformance) int {
	if stats == nil || stats.TokensTracked < minTrackedForEval {
		return 0
	}

	successRate := stats.SuccessRate()
	avgGain := stats.AvgGain()

	switch {
	case successRate >= 60 && avgGain >= 50 && stats.TokensTracked >= 10:
		return 1
	case successRate >= 50 && avgGain >= 30 && stats.TokensTracked >= 5:
		return 2
	case successRate >= 40 && avgGain >= 10:
		return 3
	default:
		return 4
	}
}

// Run re-evaluates every whale and applies tier changes in one roster
// rewrite. Returns the number of whales moved.
func (e *Engine) Run() int {
	whales := e.roster.List()

	assignments := make(map[string]int)
	var records []models.TierChangeRecord

	e.state.View(func(s *store.BotState) {
		for _, whale := range whales {
			recommended := Recommend(s.Performance[whale.Address])
			if recommended == 0 || recommended == whale.Tier {
				continue
			}

			assignments[whale.Address] = recommended
			records = append(records, models.TierChangeRecord{
				Whale:     whale.Address,
				OldTier:   whale.Tier,
				NewTier:   recommended,
				Reason:    changeReason(s.Performance[whale.Address], whale.Tier, recommended),
				Timestamp: time.Now().Unix(),
			})
		}
	})

	if len(assignments) == 0 {
		return 0
	}

	changed, err := e.roster.ApplyTiers(assignments)
	if err != nil {
		log.Printf("❌ Failed to persist tier changes: %v", err)
		return 0
	}

	e.state.Update(func(s *store.BotState) {
		for _, rec := range records {
			s.RecordTierChange(rec)
		}
	})

	for _, rec := range records {
		arrow := "⬇️"
		if rec.NewTier < rec.OldTier {
			arrow = "⬆️"
		}
		log.Printf("  %s Whale %s moved: Tier %d → %d", arrow, models.ShortAddress(rec.Whale), rec.OldTier, rec.NewTier)
	}

	log.Printf("✅ Updated %d whale tiers", changed)
	return changed
}

func changeReason(stats *models.WhalePerformance, oldTier, newTier int) string {
	verb := "Demoted"
	if newTier < oldTier {
		verb = "Promoted"
	}
	return fmt.Sprintf("%s: %.0f%% SR, %+.0f%% avg", verb, stats.SuccessRate(), stats.AvgGain())
}
