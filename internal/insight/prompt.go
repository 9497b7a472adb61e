package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maam00/glasshouse/internal/models"
)

// dailySalesTarget is the homes-per-day pace implied by quarterly guidance.
const dailySalesTarget = 29.0

const instructions = `Generate 3 insights for shareholders. Each insight should:
- Be exactly 1 sentence (10-18 words)
- Include specific numbers from the data
- Be actionable/interpretive, not just restating facts

The 3 insights must cover:
1. VELOCITY: Is daily sales pace accelerating or decelerating? How does it compare to the pace needed?
2. GUIDANCE RISK: Will they hit the quarterly target? What would need to change? Be direct about probability.
3. SIGNAL: One bullish OR bearish signal from the data (profitability, pricing, geographic, or weekly trend)

Tone: Direct, analytical, no hedge words like "may" or "could". State conclusions confidently.

Return ONLY valid JSON:
{
    "velocity_insight": "...",
    "guidance_insight": "...",
    "pattern_insight": "..."
}`

// BuildContext renders the dashboard figures into the analyst context block
// that precedes the instructions.
func BuildContext(d *models.Dashboard) string {
	velocityGap := 0.0
	if dailySalesTarget > 0 {
		velocityGap = (d.Velocity.DailyAvgSales/dailySalesTarget - 1) * 100
	}

	var topMarket models.Market
	if len(d.TopMarkets) > 0 {
		topMarket = d.TopMarkets[0]
	}

	var b strings.Builder
	b.WriteString("You are an expert equity analyst writing for shareholders of a home-flipping operator.\n\n")
	fmt.Fprintf(&b, "CURRENT QUARTER DATA (as of %s):\n\n", d.AsOf)

	b.WriteString("VELOCITY (Key metric for guidance):\n")
	fmt.Fprintf(&b, "- Daily Sales: %.1f homes/day\n", d.Velocity.DailyAvgSales)
	fmt.Fprintf(&b, "- Target Needed: %.0f homes/day to hit guidance\n", dailySalesTarget)
	fmt.Fprintf(&b, "- Gap: %+.1f%% vs target\n", velocityGap)
	fmt.Fprintf(&b, "- This Week: %.0f homes (%+.1f%% WoW)\n", d.ThisWeek.Sales, d.WowChange.SalesPct)
	fmt.Fprintf(&b, "- Best Day: %.0f homes on %s\n\n", d.Velocity.BestDaySales, d.Velocity.BestDay)

	b.WriteString("GUIDANCE TRACKING:\n")
	fmt.Fprintf(&b, "- Current: $%.1fM (%.1f%% pacing)\n", d.Velocity.Q1Revenue/1e6, d.Guidance.PacingPct)
	fmt.Fprintf(&b, "- Days Elapsed: %d, Days Remaining: %d\n", d.Guidance.DaysElapsed, d.Guidance.DaysRemaining)
	fmt.Fprintf(&b, "- Projected: $%.0fM at current pace\n\n", d.Guidance.ProjectedRevenue/1e6)

	b.WriteString("PRICING:\n")
	fmt.Fprintf(&b, "- Avg Home Price: $%.0f\n", d.Velocity.AvgHomePrice)
	fmt.Fprintf(&b, "- Quarter Revenue: $%.0f\n", d.Velocity.Q1Revenue)
	fmt.Fprintf(&b, "- Quarter Homes Sold: %d\n\n", d.Velocity.Q1Sales)

	b.WriteString("PROFITABILITY:\n")
	fmt.Fprintf(&b, "- Win Rate: %.1f%% (%d wins, %d losses)\n", d.PNL.WinRate, d.PNL.Wins, d.PNL.Losses)
	fmt.Fprintf(&b, "- Avg Profit on Wins: $%.0f\n", d.PNL.AvgProfit)
	fmt.Fprintf(&b, "- Avg Loss on Losses: $%.0f\n", d.PNL.AvgLoss)
	fmt.Fprintf(&b, "- Total Realized P&L: $%.0f\n\n", d.PNL.TotalRealized)

	b.WriteString("GEOGRAPHIC:\n")
	fmt.Fprintf(&b, "- Top Market: %s (%d listings, $%.0fK avg)\n", topMarket.City, topMarket.Listings, topMarket.AvgPrice/1000)
	fmt.Fprintf(&b, "- Market Spread: %d cities\n", d.MarketConcentration.TotalMarkets)
	fmt.Fprintf(&b, "- Concentration: Top 5 = %.0f%% of inventory\n", d.MarketConcentration.Top5Pct)

	return b.String()
}

// ParseInsights decodes the model's JSON reply, tolerating a markdown code
// fence around the payload.
func ParseInsights(text string) (*models.Insights, error) {
	cleaned := stripCodeFence(text)

	var insights models.Insights
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insights response: %w", err)
	}

	if insights.VelocityInsight == "" && insights.GuidanceInsight == "" && insights.PatternInsight == "" {
		return nil, fmt.Errorf("insights response had no recognized fields")
	}

	return &insights, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	parts := strings.SplitN(s, "```", 3)
	if len(parts) < 2 {
		return s
	}
	s = strings.TrimPrefix(parts[1], "json")
	return strings.TrimSpace(s)
}
