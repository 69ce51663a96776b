package tracker

import (
	"fmt"
	"log"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/alert"
	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

// A position counts as sold when the live balance has dropped strictly more
// than 30% below the balance recorded at detection time. The comparison is
// always against the original entry balance, and the alert fires at most
// once per pair lifetime.
const sellThresholdPct = -30.0

// Positions tracks whale balances in alerted tokens and detects exits.
type Positions struct {
	state     *store.State
	snapshots map[string]provider.WalletSnapshotProvider // by chain
	metadata  provider.TokenMetadataProvider
	notifier  Notifier
	recheck   time.Duration
}

func NewPositions(
	state *store.State,
	snapshots map[string]provider.WalletSnapshotProvider,
	metadata provider.TokenMetadataProvider,
	notifier Notifier,
	recheck time.Duration,
) *Positions {
	return &Positions{
		state:     state,
		snapshots: snapshots,
		metadata:  metadata,
		notifier:  notifier,
		recheck:   recheck,
	}
}

// Open records the whale's balance in a token at detection time. Re-opening
// an existing pair keeps the original entry balance: sell detection must
// keep comparing against the balance at first detection.
func (p *Positions) Open(whale, token, symbol, chain string, balance float64) {
	key := models.PositionKey(whale, token)

	p.state.Update(func(s *store.BotState) {
		if _, exists := s.Positions[key]; exists {
			return
		}
		s.Positions[key] = &models.TrackedPosition{
			Whale:          whale,
			Token:          token,
			Symbol:         symbol,
			Chain:          chain,
			InitialBalance: balance,
			CurrentBalance: balance,
			LastCheck:      time.Now().Unix(),
		}
	})
}

// CheckSells re-polls live balances for all open positions, at most once per
// recheck interval per pair.
func (p *Positions) CheckSells() {
	p.checkSellsAt(time.Now())
}

func (p *Positions) checkSellsAt(now time.Time) {
	// Snapshot the due pairs first so provider calls happen outside the
	// state lock.
	type duePair struct {
		key   string
		whale string
		token string
		chain string
	}
	var due []duePair

	p.state.View(func(s *store.BotState) {
		for key, pos := range s.Positions {
			if now.Unix()-pos.LastCheck < int64(p.recheck.Seconds()) {
				continue
			}
			due = append(due, duePair{key: key, whale: pos.Whale, token: pos.Token, chain: pos.Chain})
		}
	})

	for _, pair := range due {
		snapshot, ok := p.snapshots[pair.chain]
		if !ok {
			continue
		}

		holdings, err := snapshot.GetHoldings(pair.whale)
		if err != nil {
			// Fail-soft: a provider hiccup must never read as "whale
			// sold everything". Retry next cycle.
			log.Printf("  ⚠️ Error checking %s: %v", models.ShortAddress(pair.whale), err)
			continue
		}

		balance := 0.0
		for _, h := range holdings {
			if h.TokenAddress == pair.token {
				balance = h.Balance
				break
			}
		}

		p.applyBalance(pair.key, balance, now)
	}
}

// applyBalance updates a position with a freshly observed balance and fires
// the exit alert when the drop crosses the threshold. The commit waits for
// the exit metadata fetch: on a transient lookup error nothing is marked,
// so the next cycle re-detects the drop and records the real realized gain
// instead of a permanent zero sample.
func (p *Positions) applyBalance(key string, balance float64, now time.Time) {
	var (
		pending *models.TrackedPosition
		soldPct float64
	)

	p.state.Update(func(s *store.BotState) {
		pos, ok := s.Positions[key]
		if !ok {
			return
		}

		pos.CurrentBalance = balance
		pos.LastCheck = now.Unix()

		if pos.InitialBalance > 0 {
			changePct := (balance - pos.InitialBalance) / pos.InitialBalance * 100
			if changePct < sellThresholdPct && !pos.SellAlerted {
				soldPct = -changePct
				posCopy := *pos
				pending = &posCopy
				// The pair stays open, even at zero balance, until the
				// sell event commits.
				return
			}
		}

		if balance == 0 {
			delete(s.Positions, key)
		}
	})

	if pending == nil {
		return
	}

	md, err := p.metadata.GetMetadata(pending.Token, pending.Chain)
	if err != nil {
		log.Printf("  ⚠️ Could not fetch exit metadata for %s: %v (retrying next cycle)", pending.Symbol, err)
		return
	}

	p.commitSell(key, pending, md, soldPct, balance)
}

// commitSell marks the pair alerted, samples the whale at the realized gain
// and dispatches the exit alert. A nil metadata result means the token no
// longer has a tradable pair; the event still commits, with the gain read
// as zero for lack of an exit price.
func (p *Positions) commitSell(key string, pos *models.TrackedPosition, md *provider.TokenMetadata, soldPct, balance float64) {
	var fireToken *models.TrackedToken
	priceGain := 0.0
	committed := false

	p.state.Update(func(s *store.BotState) {
		live, ok := s.Positions[key]
		if !ok || live.SellAlerted {
			return
		}
		live.SellAlerted = true
		committed = true

		if token, ok := s.TrackedTokens[pos.Token]; ok {
			if token.InitialPrice > 0 && md != nil {
				priceGain = (md.Price - token.InitialPrice) / token.InitialPrice * 100
			}

			already := false
			for _, w := range token.SellsDetected {
				if w == pos.Whale {
					already = true
					break
				}
			}
			if !already {
				token.SellsDetected = append(token.SellsDetected, pos.Whale)
			}
			tokenCopy := *token
			fireToken = &tokenCopy
		}

		recordPerformance(s, pos.Whale, priceGain)
		s.AlertsSent++

		if balance == 0 {
			delete(s.Positions, key)
		}
	})

	if !committed {
		return
	}

	text := alert.FormatSellAlert(pos, fireToken, md, soldPct, priceGain)
	p.notifier.SendOnce(fmt.Sprintf("sell:%s", models.PositionKey(pos.Whale, pos.Token)), text)

	log.Printf("  🚨 SELL DETECTED: %s by whale %s", pos.Symbol, models.ShortAddress(pos.Whale))
}
