package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
)

var tierEmoji = map[int]string{
	1: "🔥",
	2: "⭐",
	3: "📊",
	4: "💤",
}

// FormatBuyAlert builds the new-position alert message.
func FormatBuyAlert(whale models.Whale, tokenAddress string, md *provider.TokenMetadata) string {
	emoji, ok := tierEmoji[whale.Tier]
	if !ok {
		emoji = "🐋"
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("%s *WHALE ALERT - Tier %d*\n\n", emoji, whale.Tier))
	msg.WriteString(fmt.Sprintf("💎 %s ($%s)\n", md.Name, md.Symbol))
	msg.WriteString(fmt.Sprintf("🐋 %s\n\n", whale.DisplayName()))

	msg.WriteString("📊 *Token Metrics:*\n")
	msg.WriteString(fmt.Sprintf("  MC: %s\n", FormatNumber(md.MarketCap)))
	msg.WriteString(fmt.Sprintf("  Liquidity: %s\n", FormatNumber(md.Liquidity)))
	msg.WriteString(fmt.Sprintf("  24h Volume: %s\n\n", FormatNumber(md.Volume24h)))

	msg.WriteString(fmt.Sprintf("📝 `%s`\n", tokenAddress))
	if md.PairURL != "" {
		msg.WriteString(fmt.Sprintf("🔗 %s\n", md.PairURL))
	}
	msg.WriteString(fmt.Sprintf("\n⚡ Chain: %s", strings.ToUpper(whale.Chain)))

	return msg.String()
}

// FormatMultiBuyAlert builds the alert sent when a second distinct whale
// buys an already-tracked token.
func FormatMultiBuyAlert(token *models.TrackedToken) string {
	var msg strings.Builder
	msg.WriteString("🔥🔥 *MULTI-BUY DETECTED!*\n\n")
	msg.WriteString(fmt.Sprintf("💎 *%s* bought by *%d* tracked whales\n\n", token.Symbol, len(token.WhalesBought)))

	for i, whale := range token.WhalesBought {
		msg.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, models.ShortAddress(whale)))
	}

	msg.WriteString(fmt.Sprintf("\n📝 `%s`", token.Address))

	return msg.String()
}

// FormatSellAlert builds the whale-exit alert message.
func FormatSellAlert(pos *models.TrackedPosition, token *models.TrackedToken, md *provider.TokenMetadata, soldPct, priceGain float64) string {
	var msg strings.Builder
	msg.WriteString("🚨 *WHALE EXIT DETECTED!*\n\n")
	msg.WriteString(fmt.Sprintf("💎 *%s* (`%s`)\n\n", pos.Symbol, models.ShortAddress(pos.Token)))
	msg.WriteString(fmt.Sprintf("📍 Whale: `%s`\n", models.ShortAddress(pos.Whale)))
	msg.WriteString(fmt.Sprintf("💰 Sold: *%.1f%%* of position\n", soldPct))
	msg.WriteString(fmt.Sprintf("📊 Remaining: %.0f tokens\n\n", pos.CurrentBalance))

	if token != nil && token.InitialPrice > 0 && md != nil {
		msg.WriteString(fmt.Sprintf("Entry: $%.8f\n", token.InitialPrice))
		msg.WriteString(fmt.Sprintf("Exit: $%.8f\n", md.Price))
		msg.WriteString(fmt.Sprintf("Gain: *%+.1f%%*\n\n", priceGain))
	}

	msg.WriteString("⚠️ Consider taking profits if holding!")

	return msg.String()
}

// FormatMilestoneAlert builds the price-milestone message.
func FormatMilestoneAlert(token *models.TrackedToken, md *provider.TokenMetadata, now time.Time) string {
	whaleCount := len(token.WhalesBought)
	multiIcon := ""
	if whaleCount >= 3 {
		multiIcon = " 🔥🔥🔥"
	} else if whaleCount >= 2 {
		multiIcon = " 🔥"
	}

	hoursHeld := now.Sub(time.Unix(token.FirstAlertTime, 0)).Hours()

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("🚀 *PRICE UPDATE%s*\n\n", multiIcon))
	msg.WriteString(fmt.Sprintf("💎 *%s* is UP *%.1f%%*!\n\n", token.Symbol, token.CurrentGainPct))
	msg.WriteString(fmt.Sprintf("📊 Initial MC: %s\n", FormatNumber(token.InitialMC)))
	if md != nil {
		msg.WriteString(fmt.Sprintf("📊 Current MC: %s\n", FormatNumber(md.MarketCap)))
	}
	msg.WriteString(fmt.Sprintf("\n💰 Entry: $%.8f\n", token.InitialPrice))
	msg.WriteString(fmt.Sprintf("💰 Current: $%.8f\n\n", token.CurrentPrice))
	msg.WriteString(fmt.Sprintf("🐋 Whales: *%d*\n", whaleCount))
	msg.WriteString(fmt.Sprintf("⏰ %.1fh since first alert\n\n", hoursHeld))
	msg.WriteString(fmt.Sprintf("📝 `%s`", token.Address))

	return msg.String()
}

// FormatNumber formats dollar amounts with K/M/B suffixes.
func FormatNumber(num float64) string {
	switch {
	case num >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", num/1_000_000_000)
	case num >= 1_000_000:
		return fmt.Sprintf("$%.2fM", num/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("$%.1fK", num/1_000)
	default:
		return fmt.Sprintf("$%.2f", num)
	}
}
