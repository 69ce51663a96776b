package models

const (
	TokenStatusActive   = "active"
	TokenStatusInactive = "inactive"
)

// TrackedToken follows a token's price after the first qualifying whale buy.
type TrackedToken struct {
	Address        string   `json:"address"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name,omitempty"`
	Chain          string   `json:"chain"`
	InitialPrice   float64  `json:"initial_price"`
	InitialMC      float64  `json:"initial_mc"`
	CurrentPrice   float64  `json:"current_price"`
	HighestPrice   float64  `json:"highest_price"`
	MaxGainPct     float64  `json:"max_gain_pct"`
	CurrentGainPct float64  `json:"current_gain_pct"`
	WhalesBought   []string `json:"whales_bought"`
	SellsDetected  []string `json:"sells_detected,omitempty"`
	FirstAlertTime int64    `json:"first_alert_time"`
	LastCheckTime  int64    `json:"last_check_time"`
	// MilestonesFired is monotonic: a fired milestone never fires again,
	// even if the gain later drops below it and recovers.
	MilestonesFired map[int]bool `json:"milestones_fired"`
	Status          string       `json:"status"`
}

// AddBuyer appends a whale to the buyer list, deduplicated, preserving order.
// Returns true when the whale was not already recorded.
func (t *TrackedToken) AddBuyer(whale string) bool {
	for _, w := range t.WhalesBought {
		if w == whale {
			return false
		}
	}
	t.WhalesBought = append(t.WhalesBought, whale)
	return true
}

// IsMultiBuy reports whether two or more distinct whales bought this token.
func (t *TrackedToken) IsMultiBuy() bool {
	return len(t.WhalesBought) >= 2
}

// TrackedPosition remembers a whale's balance in a token at detection time.
// Sell detection compares live balance against InitialBalance.
type TrackedPosition struct {
	Whale          string  `json:"whale"`
	Token          string  `json:"token"`
	Symbol         string  `json:"symbol"`
	Chain          string  `json:"chain"`
	InitialBalance float64 `json:"initial_balance"`
	CurrentBalance float64 `json:"current_balance"`
	LastCheck      int64   `json:"last_check"`
	// SellAlerted gates the exit alert to once per pair lifetime.
	SellAlerted bool `json:"sell_alerted"`
}

// PositionKey builds the map key for a (whale, token) pair.
func PositionKey(whale, token string) string {
	return whale + "_" + token
}

// WhalePerformance accumulates per-whale call outcomes, sampled at event
// time (milestone hit or position exit), not continuously.
type WhalePerformance struct {
	TokensTracked   int     `json:"tokens_tracked"`
	SuccessfulCalls int     `json:"successful_calls"`
	TotalGain       float64 `json:"total_gain"`
	BestCall        float64 `json:"best_call"`
	WorstCall       float64 `json:"worst_call"`
}

// SuccessRate returns the share of tracked calls that hit the success
// threshold, in percent.
func (p *WhalePerformance) SuccessRate() float64 {
	if p.TokensTracked == 0 {
		return 0
	}
	return float64(p.SuccessfulCalls) / float64(p.TokensTracked) * 100
}

// AvgGain returns the mean gain across tracked calls, in percent.
func (p *WhalePerformance) AvgGain() float64 {
	if p.TokensTracked == 0 {
		return 0
	}
	return p.TotalGain / float64(p.TokensTracked)
}

// Filters are the mutable quality thresholds applied to newly detected buys.
type Filters struct {
	MCMin       float64 `json:"mc_min"`
	MCMax       float64 `json:"mc_max"`
	LiqMin      float64 `json:"liq_min"`
	VolLiqMax   float64 `json:"vol_liq_max"`
	BuySellMax  float64 `json:"buy_sell_max"`
	MinTxns     int     `json:"min_txns"`
	MinAgeHours float64 `json:"min_age_hours"`
}

// DefaultFilters returns the stock thresholds used until an admin overrides
// them at runtime.
func DefaultFilters() Filters {
	return Filters{
		MCMin:       100_000,
		MCMax:       10_000_000,
		LiqMin:      10_000,
		VolLiqMax:   10,
		BuySellMax:  5,
		MinTxns:     50,
		MinAgeHours: 1,
	}
}

// BuyRecord is one entry in the recent-buys ring shown by /lastbuys.
type BuyRecord struct {
	Whale     string  `json:"whale"`
	Token     string  `json:"token"`
	Symbol    string  `json:"symbol"`
	Chain     string  `json:"chain"`
	MC        float64 `json:"mc"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}
