package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Abdullah20019/whale-tracker-bot/internal/alert"
	"github.com/Abdullah20019/whale-tracker-bot/internal/filter"
	"github.com/Abdullah20019/whale-tracker-bot/internal/logger"
	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
	"github.com/Abdullah20019/whale-tracker-bot/internal/tier"
	"github.com/Abdullah20019/whale-tracker-bot/internal/tracker"
)

// Scheduler runs the tiered polling loops plus the sell, performance and
// promotion cycles, each on its own timer. Loops never block each other;
// all cross-loop interaction goes through the store.
type Scheduler struct {
	cron        *cron.Cron
	roster      *store.Roster
	state       *store.State
	snapshots   map[string]provider.WalletSnapshotProvider // by chain
	metadata    provider.TokenMetadataProvider
	notifier    tracker.Notifier
	positions   *tracker.Positions
	performance *tracker.Performance
	promotion   *tier.Engine

	perWhaleDelay time.Duration

	// baselines holds each whale's last-known token set, keyed by
	// chain_address. In-memory only: rebuilt by an alert-suppressed
	// baseline scan after every restart.
	mu        sync.Mutex
	baselines map[string]map[string]bool
}

func New(
	roster *store.Roster,
	state *store.State,
	snapshots map[string]provider.WalletSnapshotProvider,
	metadata provider.TokenMetadataProvider,
	notifier tracker.Notifier,
	positions *tracker.Positions,
	performance *tracker.Performance,
	promotion *tier.Engine,
	perWhaleDelay time.Duration,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		roster:        roster,
		state:         state,
		snapshots:     snapshots,
		metadata:      metadata,
		notifier:      notifier,
		positions:     positions,
		performance:   performance,
		promotion:     promotion,
		perWhaleDelay: perWhaleDelay,
		baselines:     make(map[string]map[string]bool),
	}
}

func (s *Scheduler) Start() error {
	tiers := map[int]string{
		1: fmt.Sprintf("@every %ds", models.TierEliteInterval),
		2: fmt.Sprintf("@every %ds", models.TierActiveInterval),
		3: fmt.Sprintf("@every %ds", models.TierSemiActiveInterval),
		4: fmt.Sprintf("@every %ds", models.TierDormantInterval),
	}

	for tierNum, spec := range tiers {
		t := tierNum
		if _, err := s.cron.AddFunc(spec, func() { s.PollTier(t) }); err != nil {
			return err
		}
	}

	if _, err := s.cron.AddFunc("@every 120s", s.positions.CheckSells); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("@every 60s", s.performance.Refresh); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("@every 1h", func() {
		log.Println("🔄 Running tier promotion...")
		s.promotion.Run()
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Monitoring scheduler started")

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Monitoring scheduler stopped")
}

// RunBaselineScan seeds the token-set baseline for every whale in the
// roster. The first scan never produces alerts; a cold start must not look
// like hundreds of simultaneous buys.
func (s *Scheduler) RunBaselineScan() {
	log.Println("📋 BASELINE SCAN")
	for t := models.TierMin; t <= models.TierMax; t++ {
		s.PollTier(t)
	}
	log.Println("✅ Baseline scan complete!")
}

// PollTier re-polls every whale currently assigned to the tier. The roster
// is re-read each cycle so promotions apply without restart.
func (s *Scheduler) PollTier(tierNum int) {
	whales := s.roster.ListByTier(tierNum)
	if len(whales) == 0 {
		return
	}

	logger.Debug("Checking %d tier-%d whales", len(whales), tierNum)

	s.state.Update(func(st *store.BotState) {
		st.CycleCount++
	})

	for i, whale := range whales {
		s.pollWhale(whale)

		// Serialized with a fixed delay for third-party rate limits.
		if s.perWhaleDelay > 0 && i < len(whales)-1 {
			time.Sleep(s.perWhaleDelay)
		}
	}
}

// pollWhale fetches a whale's live holdings, diffs against the last-known
// set and routes every newly present token through the buy pipeline.
func (s *Scheduler) pollWhale(whale models.Whale) {
	snapshot, ok := s.snapshots[whale.Chain]
	if !ok {
		return
	}

	holdings, err := snapshot.GetHoldings(whale.Address)
	if err != nil {
		// Fail-soft: leave the last-known-good baseline untouched so a
		// transient error never reads as a portfolio change.
		log.Printf("  ⚠️ Error checking %s: %v", whale.ShortAddress(), err)
		return
	}

	current := make(map[string]bool, len(holdings))
	balances := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		current[h.TokenAddress] = true
		balances[h.TokenAddress] = h.Balance
	}

	key := whale.Chain + "_" + whale.Address

	s.mu.Lock()
	previous, seeded := s.baselines[key]
	s.baselines[key] = current
	s.mu.Unlock()

	if !seeded {
		return // baseline scan for this whale; no alerts
	}

	for token := range current {
		if previous[token] {
			continue
		}
		s.handleNewBuy(whale, token, balances[token])
	}
}

// handleNewBuy runs the filter and, on pass, opens tracking and alerts.
func (s *Scheduler) handleNewBuy(whale models.Whale, tokenAddress string, balance float64) {
	paused := false
	var filters models.Filters
	s.state.View(func(st *store.BotState) {
		paused = st.Paused
		filters = st.Filters
	})

	if paused {
		return
	}

	log.Printf("  🚨 NEW BUY: %s → %s", whale.DisplayName(), models.ShortAddress(tokenAddress))

	md, err := s.metadata.GetMetadata(tokenAddress, whale.Chain)
	if err != nil {
		log.Printf("  ⚠️ Could not fetch token info: %v", err)
		return
	}

	pass, reason := filter.Evaluate(md, filters)
	if !pass {
		s.state.Update(func(st *store.BotState) {
			st.TokensFiltered++
		})
		log.Printf("  ⚠️ Token failed quality filters: %s", reason)
		return
	}

	s.positions.Open(whale.Address, tokenAddress, md.Symbol, whale.Chain, balance)
	s.performance.TrackBuy(whale.Address, tokenAddress, whale.Chain, md)

	s.state.Update(func(st *store.BotState) {
		st.RecordBuy(models.BuyRecord{
			Whale:     whale.Address,
			Token:     tokenAddress,
			Symbol:    md.Symbol,
			Chain:     whale.Chain,
			MC:        md.MarketCap,
			Price:     md.Price,
			Timestamp: time.Now().Unix(),
		})
		st.AlertsSent++
	})

	text := alert.FormatBuyAlert(whale, tokenAddress, md)
	s.notifier.SendOnce(fmt.Sprintf("buy:%s:%s", whale.Address, tokenAddress), text)

	log.Printf("  ✅ Alert sent for %s", md.Symbol)
}
