package models

// Dashboard is the unified dashboard data document. Only the fields the
// insight and validation stages read are typed here; when rewriting the file
// the callers merge into the raw document so unknown fields survive.
type Dashboard struct {
	AsOf                string              `json:"as_of"`
	Velocity            Velocity            `json:"velocity"`
	ThisWeek            WeekStats           `json:"this_week"`
	WowChange           WowChange           `json:"wow_change"`
	Guidance            Guidance            `json:"guidance"`
	PNL                 PNL                 `json:"pnl"`
	TopMarkets          []Market            `json:"top_markets,omitempty"`
	MarketConcentration MarketConcentration `json:"market_concentration"`
	AIInsights          *Insights           `json:"ai_insights,omitempty"`
}

// Velocity tracks sales pace against quarterly guidance.
type Velocity struct {
	DailyAvgSales float64 `json:"daily_avg_sales"`
	BestDaySales  float64 `json:"best_day_sales"`
	BestDay       string  `json:"best_day"`
	Q1Revenue     float64 `json:"q1_revenue"`
	Q1Sales       int     `json:"q1_sales"`
	AvgHomePrice  float64 `json:"avg_home_price"`
}

type WeekStats struct {
	Sales float64 `json:"sales"`
}

type WowChange struct {
	SalesPct float64 `json:"sales_pct"`
}

// Guidance tracks progress toward the quarterly revenue target.
type Guidance struct {
	PacingPct        float64 `json:"pacing_pct"`
	DaysElapsed      int     `json:"days_elapsed"`
	DaysRemaining    int     `json:"days_remaining"`
	ProjectedRevenue float64 `json:"projected_revenue"`
}

// PNL summarizes realized outcomes on sold homes.
type PNL struct {
	WinRate       float64 `json:"win_rate"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	AvgProfit     float64 `json:"avg_profit"`
	AvgLoss       float64 `json:"avg_loss"`
	TotalRealized float64 `json:"total_realized"`
}

type Market struct {
	City     string  `json:"city"`
	Listings int     `json:"listings"`
	AvgPrice float64 `json:"avg_price"`
}

type MarketConcentration struct {
	TotalMarkets int     `json:"total_markets"`
	Top5Pct      float64 `json:"top5_pct"`
}

// Insights is the narrative output of the insight-generation stage.
type Insights struct {
	VelocityInsight string `json:"velocity_insight"`
	GuidanceInsight string `json:"guidance_insight"`
	PatternInsight  string `json:"pattern_insight"`
	GeneratedAt     string `json:"generated_at,omitempty"`
}
