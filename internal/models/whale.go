package models

import "fmt"

const (
	ChainSolana = "solana"
	ChainBase   = "base"
)

// Tier check intervals in seconds. Tier 1 is the hottest bucket.
const (
	TierEliteInterval      = 30
	TierActiveInterval     = 180
	TierSemiActiveInterval = 600
	TierDormantInterval    = 86400
)

const (
	TierMin = 1
	TierMax = 4
)

// Whale is a monitored wallet address. The tier decides how often its
// holdings are re-polled.
type Whale struct {
	Address    string  `json:"address"`
	Chain      string  `json:"chain"`
	Name       string  `json:"name,omitempty"`
	Tier       int     `json:"tier"`
	WinCount   int     `json:"win_count"`
	WinRate    float64 `json:"win_rate"`
	TotalCalls int     `json:"total_calls"`
	Source     string  `json:"source,omitempty"` // manual, import
	AddedDate  string  `json:"added_date,omitempty"`
}

// Normalize repairs records loaded from the roster file: older exports carry
// missing tiers or free-form chain names.
func (w *Whale) Normalize() {
	if w.Tier < TierMin || w.Tier > TierMax {
		w.Tier = 3
	}
	switch w.Chain {
	case ChainSolana, ChainBase:
	case "sol":
		w.Chain = ChainSolana
	default:
		w.Chain = ChainSolana
	}
}

// ShortAddress shortens an address for display.
func (w *Whale) ShortAddress() string {
	return ShortAddress(w.Address)
}

// DisplayName is the whale's name, falling back to a shortened address.
func (w *Whale) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ShortAddress()
}

// CheckInterval returns the poll cadence for the whale's tier, in seconds.
func (w *Whale) CheckInterval() int {
	switch w.Tier {
	case 1:
		return TierEliteInterval
	case 2:
		return TierActiveInterval
	case 3:
		return TierSemiActiveInterval
	default:
		return TierDormantInterval
	}
}

// TierChangeRecord is one entry in the append-only promotion/demotion log.
type TierChangeRecord struct {
	Whale     string `json:"whale"`
	OldTier   int    `json:"old_tier"`
	NewTier   int    `json:"new_tier"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// ShortAddress shortens a wallet or token address for display.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return fmt.Sprintf("%s...%s", address[:6], address[len(address)-4:])
}
