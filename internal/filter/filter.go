package filter

import (
	"fmt"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
)

// Liquidity below 5% of market cap implies unreliable pricing or a
// honeypot; this floor is not runtime-configurable.
const minLiquidityRatioPct = 5.0

// Buy/sell ratios below this floor signal one-sided dumping; the ceiling is
// configurable, the floor is not.
const minBuySellRatio = 0.3

// Evaluate decides whether a newly detected buy is alert-worthy. It is a
// pure function of (metadata, filters): checks run in a fixed order and the
// first failure determines the reported reason.
func Evaluate(md *provider.TokenMetadata, f models.Filters) (bool, string) {
	return evaluateAt(md, f, time.Now())
}

func evaluateAt(md *provider.TokenMetadata, f models.Filters, now time.Time) (bool, string) {
	if md == nil {
		return false, "no data"
	}

	if md.MarketCap < f.MCMin {
		return false, fmt.Sprintf("MC too low ($%.0f)", md.MarketCap)
	}

	if md.MarketCap > f.MCMax {
		return false, fmt.Sprintf("MC too high ($%.0f)", md.MarketCap)
	}

	if md.Liquidity < f.LiqMin {
		return false, fmt.Sprintf("liquidity too low ($%.0f)", md.Liquidity)
	}

	if md.MarketCap > 0 {
		liqRatio := md.Liquidity / md.MarketCap * 100
		if liqRatio < minLiquidityRatioPct {
			return false, fmt.Sprintf("liquidity ratio too low (%.1f%%)", liqRatio)
		}
	}

	if md.Liquidity > 0 {
		volLiq := md.Volume24h / md.Liquidity
		if volLiq > f.VolLiqMax {
			return false, fmt.Sprintf("suspicious volume/liquidity ratio (%.1f)", volLiq)
		}
	}

	if md.Sells24h > 0 {
		buySell := float64(md.Buys24h) / float64(md.Sells24h)
		if buySell < minBuySellRatio || buySell > f.BuySellMax {
			return false, fmt.Sprintf("lopsided buy/sell ratio (%.2f)", buySell)
		}
	}

	if md.Buys24h+md.Sells24h < f.MinTxns {
		return false, fmt.Sprintf("too few transactions (%d)", md.Buys24h+md.Sells24h)
	}

	if md.PairCreatedAtMs > 0 {
		ageHours := now.Sub(time.UnixMilli(md.PairCreatedAtMs)).Hours()
		if ageHours < f.MinAgeHours {
			return false, fmt.Sprintf("pair too young (%.1fh)", ageHours)
		}
	}

	return true, "passed all filters"
}
