package telegram

import (
	"fmt"
	"strings"
	"time"

	"tcg-pricewatch/internal/entity"
)

const maxMessageLen = 4090

// FormatRecommendationDigest formats the freshly generated recommendation
// set into one or more Markdown messages, split so no part exceeds the
// Telegram message limit.
func FormatRecommendationDigest(recs []entity.Recommendation) []string {
	if len(recs) == 0 {
		return []string{"No card recommendations generated in this run."}
	}

	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString("🃏 *Card Price Recommendations* 🃏\n\n")
		} else {
			current.WriteString(fmt.Sprintf("---*Card Price Recommendations Part %d*---\n\n", part))
		}
	}
	startNewPart()

	for _, r := range recs {
		var entry strings.Builder
		entry.WriteString(fmt.Sprintf("%s *%s*\n", actionIcon(r.SuggestedAction), r.ItemKey))
		entry.WriteString(fmt.Sprintf("🏷 *Action:* %s\n", r.SuggestedAction))
		entry.WriteString(fmt.Sprintf("💰 *Clean Price:* %.2f | *Reference:* %.2f\n", r.CleanPrice, r.ReferenceValue))
		entry.WriteString(fmt.Sprintf("🎯 *Buy ≤* %.2f | *Sell ≥* %.2f\n", r.TargetBuy, r.TargetSell))
		entry.WriteString(fmt.Sprintf("%s *Trend:* %s\n\n", trendIcon(r.Trend), r.Trend))

		if current.Len()+entry.Len() > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry.String())
	}

	messages = append(messages, current.String())
	return messages
}

// FormatBuyWindowAlert formats an alert for a wanted card whose clean
// price dropped into the buy window.
func FormatBuyWindowAlert(itemKey string, cleanPrice, targetBuy float64, trend string) string {
	return fmt.Sprintf(
		"🟢 *Buy Window Open*\n\n*Card:* %s\n*Clean Price:* %.2f\n*Target Buy:* %.2f\n%s *Trend:* %s",
		itemKey, cleanPrice, targetBuy, trendIcon(trend), trend,
	)
}

// FormatErrorAlertMessage formats a run-level failure notification.
func FormatErrorAlertMessage(t time.Time, message string) string {
	return fmt.Sprintf("🚨 *Pipeline Alert* 🚨\n\n*Time:* %s\n*Detail:* %s",
		t.Format("2006-01-02 15:04:05"), message)
}

func actionIcon(action string) string {
	switch action {
	case "BUY_NOW", "SAFE_BUY":
		return "🟢"
	case "BUNDLE_BUY", "BUNDLE", "JOB_LOT":
		return "📦"
	case "LIST_NOW":
		return "🔴"
	default: // WATCH
		return "👀"
	}
}

func trendIcon(trend string) string {
	switch trend {
	case "UP":
		return "📈"
	case "DOWN":
		return "📉"
	case "FLAT":
		return "➡️"
	default:
		return "⚠️"
	}
}
