package tracker

import (
	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

// Notifier is the alert surface consumed by the trackers. Delivery is
// best-effort; a false return never rolls back tracking state.
type Notifier interface {
	Send(text string) bool
	SendOnce(key, text string) bool
}

// A call counts as successful once its gain reaches this percentage.
const successGainPct = 100.0

// recordPerformance samples a whale's performance at event time (milestone
// hit or position exit). Must run inside a state Update/View.
func recordPerformance(s *store.BotState, whale string, gain float64) {
	stats, ok := s.Performance[whale]
	if !ok {
		stats = &models.WhalePerformance{}
		s.Performance[whale] = stats
	}

	stats.TokensTracked++
	stats.TotalGain += gain

	if gain >= successGainPct {
		stats.SuccessfulCalls++
	}

	if gain > stats.BestCall {
		stats.BestCall = gain
	}
	if gain < stats.WorstCall {
		stats.WorstCall = gain
	}
}
