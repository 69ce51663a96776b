package tracker

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/alert"
	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

// Milestones are cumulative gain percentages; each fires a one-time alert.
var Milestones = []int{10, 25, 50, 100, 200, 500, 1000}

// Performance follows tracked token prices and fires milestone alerts.
type Performance struct {
	state    *store.State
	metadata provider.TokenMetadataProvider
	notifier Notifier
	recheck  time.Duration
}

func NewPerformance(
	state *store.State,
	metadata provider.TokenMetadataProvider,
	notifier Notifier,
	recheck time.Duration,
) *Performance {
	return &Performance{
		state:    state,
		metadata: metadata,
		notifier: notifier,
		recheck:  recheck,
	}
}

// TrackBuy starts tracking a token on its first qualifying buy, or appends
// the whale on a subsequent buy of an already-tracked token. Returns true
// when this buy made the token a fresh multi-buy.
func (p *Performance) TrackBuy(whale, tokenAddress, chain string, md *provider.TokenMetadata) bool {
	var (
		multiBuy  bool
		fireToken *models.TrackedToken
	)

	p.state.Update(func(s *store.BotState) {
		token, exists := s.TrackedTokens[tokenAddress]
		if !exists {
			token = &models.TrackedToken{
				Address:         tokenAddress,
				Symbol:          md.Symbol,
				Name:            md.Name,
				Chain:           chain,
				InitialPrice:    md.Price,
				InitialMC:       md.MarketCap,
				CurrentPrice:    md.Price,
				HighestPrice:    md.Price,
				WhalesBought:    []string{whale},
				FirstAlertTime:  time.Now().Unix(),
				LastCheckTime:   time.Now().Unix(),
				MilestonesFired: make(map[int]bool),
				Status:          models.TokenStatusActive,
			}
			s.TrackedTokens[tokenAddress] = token
			return
		}

		wasMulti := token.IsMultiBuy()
		if token.AddBuyer(whale) && !wasMulti && token.IsMultiBuy() {
			multiBuy = true
			tokenCopy := *token
			fireToken = &tokenCopy
		}
	})

	if multiBuy && fireToken != nil {
		p.notifier.SendOnce(fmt.Sprintf("multibuy:%s", tokenAddress), alert.FormatMultiBuyAlert(fireToken))
	}

	return multiBuy
}

// Refresh re-polls prices for active tracked tokens, at most once per
// recheck interval per token, and fires any newly crossed milestones.
func (p *Performance) Refresh() {
	p.refreshAt(time.Now())
}

func (p *Performance) refreshAt(now time.Time) {
	var due []struct {
		address string
		chain   string
	}

	p.state.View(func(s *store.BotState) {
		for addr, token := range s.TrackedTokens {
			if token.Status != models.TokenStatusActive {
				continue
			}
			if now.Unix()-token.LastCheckTime < int64(p.recheck.Seconds()) {
				continue
			}
			due = append(due, struct {
				address string
				chain   string
			}{addr, token.Chain})
		}
	})

	for _, item := range due {
		md, err := p.metadata.GetMetadata(item.address, item.chain)
		if err != nil {
			log.Printf("  ⚠️ Price check failed for %s: %v", models.ShortAddress(item.address), err)
			continue
		}
		if md == nil {
			continue
		}

		p.applyPrice(item.address, md, now)
	}
}

// applyPrice folds a fresh price into a tracked token and fires the lowest
// not-yet-fired milestones the gain has crossed. Milestones are monotonic:
// once fired, never again, even if the price oscillates.
func (p *Performance) applyPrice(tokenAddress string, md *provider.TokenMetadata, now time.Time) {
	var (
		fired     []int
		fireToken *models.TrackedToken
	)

	p.state.Update(func(s *store.BotState) {
		token, ok := s.TrackedTokens[tokenAddress]
		if !ok || token.InitialPrice <= 0 {
			return
		}

		token.CurrentPrice = md.Price
		token.LastCheckTime = now.Unix()
		token.CurrentGainPct = (md.Price - token.InitialPrice) / token.InitialPrice * 100

		if token.CurrentGainPct > token.MaxGainPct {
			token.MaxGainPct = token.CurrentGainPct
			token.HighestPrice = md.Price
		}

		for _, milestone := range Milestones {
			if token.CurrentGainPct >= float64(milestone) && !token.MilestonesFired[milestone] {
				token.MilestonesFired[milestone] = true
				fired = append(fired, milestone)
			}
		}

		if len(fired) > 0 {
			// Performance reflects live price, alert cadence reflects
			// milestones: each credited whale is sampled at the current
			// gain, once per milestone crossed.
			for range fired {
				for _, whale := range token.WhalesBought {
					recordPerformance(s, whale, token.CurrentGainPct)
				}
			}
			s.AlertsSent += len(fired)
			tokenCopy := *token
			fireToken = &tokenCopy
		}
	})

	if fireToken == nil {
		return
	}

	sort.Ints(fired)
	text := alert.FormatMilestoneAlert(fireToken, md, now)
	for _, milestone := range fired {
		p.notifier.SendOnce(fmt.Sprintf("milestone:%s:%d", tokenAddress, milestone), text)
		log.Printf("  📈 Milestone %d%% hit: %s", milestone, fireToken.Symbol)
	}
}
