package bot

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/alert"
	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

// Handler answers chat commands synchronously against the roster and the
// runtime state.
type Handler struct {
	roster  *store.Roster
	state   *store.State
	adminID int64
}

func NewHandler(roster *store.Roster, state *store.State, adminID int64) *Handler {
	return &Handler{
		roster:  roster,
		state:   state,
		adminID: adminID,
	}
}

// HandleCommand routes a command and returns the response text. A panic in
// any handler is recovered into a short diagnostic so one bad command can
// never take down the listener loop.
func (h *Handler) HandleCommand(text string, callerID int64) (response string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Command handler panic on %q: %v", text, r)
			response = "Internal error processing command"
		}
	}()

	text = strings.TrimSpace(text)
	if i := strings.Index(text, "@"); i > 0 && !strings.Contains(text[:i], " ") {
		text = text[1:i] // strip /cmd@BotName
	} else {
		text = strings.TrimPrefix(text, "/")
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return unknownCommandMessage
	}
	command := strings.ToLower(parts[0])

	// /tier1 .. /tier4
	if strings.HasPrefix(command, "tier") && len(command) == 5 {
		if n, err := strconv.Atoi(command[4:]); err == nil {
			return h.cmdTierDetail(n)
		}
	}

	switch command {
	case CommandStart:
		return h.cmdStart()
	case CommandHelp:
		return h.cmdHelp()
	case CommandGuide:
		return h.cmdGuide()
	case CommandStats:
		return h.cmdStats()
	case CommandTiers:
		return h.cmdTiers()
	case CommandTracked:
		return h.cmdTracked()
	case CommandTopWhales, CommandPerformance:
		return h.cmdTopWhales()
	case CommandMultiBuys:
		return h.cmdMultiBuys()
	case CommandPromotions:
		return h.cmdPromotions()
	case CommandLastBuys:
		return h.cmdLastBuys()
	case CommandFilters:
		return h.cmdFilters()
	case CommandPause:
		return h.cmdPause(callerID)
	case CommandResume:
		return h.cmdResume(callerID)
	case CommandSetFilter:
		return h.cmdSetFilter(callerID, parts[1:])
	case CommandAddWhale:
		return h.cmdAddWhale(callerID, parts[1:])
	case CommandRemoveWhale:
		return h.cmdRemoveWhale(callerID, parts[1:])
	default:
		return unknownCommandMessage
	}
}

func (h *Handler) isAdmin(callerID int64) bool {
	return callerID == h.adminID
}

func (h *Handler) cmdStart() string {
	var msg strings.Builder
	msg.WriteString("WHALE TRACKER BOT\n\n")
	msg.WriteString("Welcome! I monitor elite crypto whales.\n\n")
	msg.WriteString("Commands:\n")
	msg.WriteString("/help - All commands\n")
	msg.WriteString("/stats - Statistics\n")
	msg.WriteString("/tiers - View tiers")
	return msg.String()
}

func (h *Handler) cmdHelp() string {
	var msg strings.Builder
	msg.WriteString("COMMANDS\n\n")
	msg.WriteString("STATISTICS\n")
	msg.WriteString("/stats - Bot stats\n")
	msg.WriteString("/tiers - Tier info\n")
	msg.WriteString("/tier1../tier4 - Tier detail\n\n")
	msg.WriteString("TRACKING\n")
	msg.WriteString("/tracked - Active tokens\n")
	msg.WriteString("/topwhales - Top performers\n")
	msg.WriteString("/multibuys - Multi-whale buys\n")
	msg.WriteString("/promotions - Tier changes\n")
	msg.WriteString("/lastbuys - Recent buys\n")
	msg.WriteString("/filters - Current filters\n\n")
	msg.WriteString("ADMIN\n")
	msg.WriteString("/pause /resume - Toggle alerts\n")
	msg.WriteString("/setfilter [name] [value]\n")
	msg.WriteString("/addwhale [address] [chain]\n")
	msg.WriteString("/removewhale [address]")
	return msg.String()
}

func (h *Handler) cmdGuide() string {
	var msg strings.Builder
	msg.WriteString("WHALE TRACKER GUIDE\n\n")
	msg.WriteString(fmt.Sprintf("Monitoring %d whales\n", h.roster.Count()))
	msg.WriteString("4-tier system: tier 1 polled every 30s, tier 4 daily\n")
	msg.WriteString("New buys are quality-filtered before alerting\n")
	msg.WriteString("Tracked tokens get price milestone updates\n")
	msg.WriteString("Whale exits (>30% position drop) trigger sell alerts\n\n")
	msg.WriteString("Use /help for commands")
	return msg.String()
}

func (h *Handler) cmdStats() string {
	whales := h.roster.List()

	sol, base := 0, 0
	tierCounts := make(map[int]int)
	for _, w := range whales {
		if w.Chain == models.ChainSolana {
			sol++
		} else {
			base++
		}
		tierCounts[w.Tier]++
	}

	var active, alerts, filtered int
	var paused bool
	var uptime time.Duration
	h.state.View(func(s *store.BotState) {
		for _, t := range s.TrackedTokens {
			if t.Status == models.TokenStatusActive {
				active++
			}
		}
		alerts = s.AlertsSent
		filtered = s.TokensFiltered
		paused = s.Paused
		uptime = time.Since(time.Unix(s.StartTime, 0))
	})

	var msg strings.Builder
	msg.WriteString("BOT STATISTICS\n\n")
	msg.WriteString(fmt.Sprintf("Total Whales: %d\n", len(whales)))
	msg.WriteString(fmt.Sprintf("Solana: %d\n", sol))
	msg.WriteString(fmt.Sprintf("Base: %d\n\n", base))
	for t := models.TierMin; t <= models.TierMax; t++ {
		msg.WriteString(fmt.Sprintf("Tier %d: %d\n", t, tierCounts[t]))
	}
	msg.WriteString(fmt.Sprintf("\nAlerts: %d\n", alerts))
	msg.WriteString(fmt.Sprintf("Filtered: %d\n", filtered))
	msg.WriteString(fmt.Sprintf("Tracking: %d tokens\n", active))
	msg.WriteString(fmt.Sprintf("Uptime: %s\n", uptime.Round(time.Second)))
	if paused {
		msg.WriteString("\n⏸ Monitoring PAUSED")
	}
	return msg.String()
}

func (h *Handler) cmdTiers() string {
	whales := h.roster.List()
	tierCounts := make(map[int]int)
	for _, w := range whales {
		tierCounts[w.Tier]++
	}

	var msg strings.Builder
	msg.WriteString("TIER SYSTEM\n\n")
	msg.WriteString(fmt.Sprintf("Tier 1 (30s): %d whales\n", tierCounts[1]))
	msg.WriteString(fmt.Sprintf("Tier 2 (3m): %d whales\n", tierCounts[2]))
	msg.WriteString(fmt.Sprintf("Tier 3 (10m): %d whales\n", tierCounts[3]))
	msg.WriteString(fmt.Sprintf("Tier 4 (24h): %d whales", tierCounts[4]))
	return msg.String()
}

func (h *Handler) cmdTierDetail(tierNum int) string {
	if tierNum < models.TierMin || tierNum > models.TierMax {
		return unknownCommandMessage
	}

	whales := h.roster.ListByTier(tierNum)
	if len(whales) == 0 {
		return fmt.Sprintf("No whales in Tier %d", tierNum)
	}

	sol, base := 0, 0
	for _, w := range whales {
		if w.Chain == models.ChainSolana {
			sol++
		} else {
			base++
		}
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("TIER %d\n\n", tierNum))
	msg.WriteString(fmt.Sprintf("Total: %d\n", len(whales)))
	msg.WriteString(fmt.Sprintf("Solana: %d\n", sol))
	msg.WriteString(fmt.Sprintf("Base: %d", base))
	return msg.String()
}

func (h *Handler) cmdTracked() string {
	type entry struct {
		symbol string
		gain   float64
	}
	var entries []entry

	h.state.View(func(s *store.BotState) {
		for _, t := range s.TrackedTokens {
			if t.Status != models.TokenStatusActive {
				continue
			}
			entries = append(entries, entry{symbol: t.Symbol, gain: t.CurrentGainPct})
		}
	})

	if len(entries) == 0 {
		return "No tracked tokens"
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].gain > entries[j].gain })
	if len(entries) > 10 {
		entries = entries[:10]
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("TRACKED (%d)\n\n", len(entries)))
	for i, e := range entries {
		msg.WriteString(fmt.Sprintf("%d. %s: %+.1f%%\n", i+1, e.symbol, e.gain))
	}
	return msg.String()
}

func (h *Handler) cmdTopWhales() string {
	type entry struct {
		addr  string
		rate  float64
		calls int
	}
	var entries []entry

	h.state.View(func(s *store.BotState) {
		for addr, perf := range s.Performance {
			if perf.TokensTracked >= 3 {
				entries = append(entries, entry{addr: addr, rate: perf.SuccessRate(), calls: perf.TokensTracked})
			}
		}
	})

	if len(entries) == 0 {
		return "No performance data yet"
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rate > entries[j].rate })
	if len(entries) > 10 {
		entries = entries[:10]
	}

	var msg strings.Builder
	msg.WriteString("TOP WHALES\n\n")
	for i, e := range entries {
		msg.WriteString(fmt.Sprintf("%d. %s: %.0f%% (%d calls)\n", i+1, models.ShortAddress(e.addr), e.rate, e.calls))
	}
	return msg.String()
}

func (h *Handler) cmdMultiBuys() string {
	type entry struct {
		symbol string
		whales int
		first  int64
	}
	var entries []entry

	h.state.View(func(s *store.BotState) {
		for _, t := range s.TrackedTokens {
			if t.IsMultiBuy() {
				entries = append(entries, entry{symbol: t.Symbol, whales: len(t.WhalesBought), first: t.FirstAlertTime})
			}
		}
	})

	if len(entries) == 0 {
		return "No multi-buys yet"
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].first > entries[j].first })
	if len(entries) > 10 {
		entries = entries[:10]
	}

	var msg strings.Builder
	msg.WriteString("MULTI-BUYS\n\n")
	for _, e := range entries {
		msg.WriteString(fmt.Sprintf("%s: %d whales\n", e.symbol, e.whales))
	}
	return msg.String()
}

func (h *Handler) cmdPromotions() string {
	var changes []models.TierChangeRecord
	h.state.View(func(s *store.BotState) {
		changes = append(changes, s.TierChanges...)
	})

	if len(changes) == 0 {
		return "No tier changes yet"
	}

	if len(changes) > 5 {
		changes = changes[len(changes)-5:]
	}

	var msg strings.Builder
	msg.WriteString("TIER CHANGES\n\n")
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		msg.WriteString(fmt.Sprintf("%s: T%d -> T%d (%s)\n", models.ShortAddress(c.Whale), c.OldTier, c.NewTier, c.Reason))
	}
	return msg.String()
}

func (h *Handler) cmdLastBuys() string {
	var buys []models.BuyRecord
	h.state.View(func(s *store.BotState) {
		buys = append(buys, s.LastBuys...)
	})

	if len(buys) == 0 {
		return "No recent buys"
	}

	if len(buys) > 10 {
		buys = buys[len(buys)-10:]
	}

	var msg strings.Builder
	msg.WriteString("LAST BUYS\n\n")
	for i := len(buys) - 1; i >= 0; i-- {
		b := buys[i]
		msg.WriteString(fmt.Sprintf("%d. %s: %s\n", len(buys)-i, b.Symbol, alert.FormatNumber(b.MC)))
	}
	return msg.String()
}

func (h *Handler) cmdFilters() string {
	var f models.Filters
	h.state.View(func(s *store.BotState) {
		f = s.Filters
	})

	var msg strings.Builder
	msg.WriteString("FILTERS\n\n")
	msg.WriteString(fmt.Sprintf("mc_min: $%.0f\n", f.MCMin))
	msg.WriteString(fmt.Sprintf("mc_max: $%.0f\n", f.MCMax))
	msg.WriteString(fmt.Sprintf("liq_min: $%.0f\n", f.LiqMin))
	msg.WriteString(fmt.Sprintf("vol_liq_max: %.1f\n", f.VolLiqMax))
	msg.WriteString(fmt.Sprintf("buy_sell_max: %.1f\n", f.BuySellMax))
	msg.WriteString(fmt.Sprintf("min_txns: %d\n", f.MinTxns))
	msg.WriteString(fmt.Sprintf("min_age_hours: %.1f", f.MinAgeHours))
	return msg.String()
}

func (h *Handler) cmdPause(callerID int64) string {
	if !h.isAdmin(callerID) {
		return adminDeniedMessage
	}

	h.state.Update(func(s *store.BotState) {
		s.Paused = true
	})
	return "Bot paused"
}

func (h *Handler) cmdResume(callerID int64) string {
	if !h.isAdmin(callerID) {
		return adminDeniedMessage
	}

	h.state.Update(func(s *store.BotState) {
		s.Paused = false
	})
	return "Bot resumed"
}

func (h *Handler) cmdSetFilter(callerID int64, args []string) string {
	if !h.isAdmin(callerID) {
		return adminDeniedMessage
	}

	if len(args) < 2 {
		return "Usage: /setfilter [setting] [value]"
	}

	setting := strings.ToLower(args[0])
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return "Invalid value"
	}

	applied := true
	h.state.Update(func(s *store.BotState) {
		switch setting {
		case "mc_min":
			s.Filters.MCMin = value
		case "mc_max":
			s.Filters.MCMax = value
		case "liq_min":
			s.Filters.LiqMin = value
		case "vol_liq_max":
			s.Filters.VolLiqMax = value
		case "buy_sell_max":
			s.Filters.BuySellMax = value
		case "min_txns":
			s.Filters.MinTxns = int(value)
		case "min_age_hours":
			s.Filters.MinAgeHours = value
		default:
			applied = false
		}
	})

	if !applied {
		return fmt.Sprintf("Unknown filter: %s", setting)
	}

	return fmt.Sprintf("Updated: %s = %g", setting, value)
}

func (h *Handler) cmdAddWhale(callerID int64, args []string) string {
	if !h.isAdmin(callerID) {
		return adminDeniedMessage
	}

	if len(args) < 2 {
		return "Usage: /addwhale [address] [chain]"
	}

	address := args[0]
	chain := strings.ToLower(args[1])

	if chain != models.ChainSolana && chain != models.ChainBase {
		return "Chain must be solana or base"
	}

	whale := models.Whale{
		Address: address,
		Chain:   chain,
		Tier:    1,
		Source:  "manual",
	}

	if err := h.roster.Add(whale); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	return fmt.Sprintf("Added to Tier 1!\nTotal: %d whales", h.roster.Count())
}

func (h *Handler) cmdRemoveWhale(callerID int64, args []string) string {
	if !h.isAdmin(callerID) {
		return adminDeniedMessage
	}

	if len(args) < 1 {
		return "Usage: /removewhale [address]"
	}

	removed, err := h.roster.Remove(args[0])
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if !removed {
		return "Not found"
	}

	return fmt.Sprintf("Removed! Now tracking %d whales", h.roster.Count())
}
