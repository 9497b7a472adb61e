package parser

import (
	"strings"
	"testing"
)

func TestParseJSONSnapshot(t *testing.T) {
	input := `{
		"date": "2026-02-14",
		"cohort_new": {"win_rate": 96.5, "count": 120},
		"performance": {"contribution_margin": 6.2},
		"toxic": {"remaining_count": 42},
		"alerts": ["[WARNING] something"],
		"geographic": {"by_city": {"Phoenix": 10}}
	}`

	snap, err := ParseJSONSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseJSONSnapshot returned error: %v", err)
	}

	if got := snap.Value("cohort_new", "win_rate"); got != 96.5 {
		t.Errorf("cohort_new.win_rate = %v, want 96.5", got)
	}
	if got := snap.Value("toxic", "remaining_count"); got != 42 {
		t.Errorf("toxic.remaining_count = %v, want 42", got)
	}
	// Non-section fields are ignored, missing keys read as zero.
	if got := snap.Value("alerts", "0"); got != 0 {
		t.Errorf("alerts should not be a section, got %v", got)
	}
	if got := snap.Value("inventory", "total"); got != 0 {
		t.Errorf("missing section should read as zero, got %v", got)
	}
}

func TestParseJSONSnapshotInvalid(t *testing.T) {
	if _, err := ParseJSONSnapshot(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestParseYAMLSnapshot(t *testing.T) {
	input := `
performance:
  win_rate: 88.5
  contribution_margin: 5
inventory:
  total: 1450
`

	snap, err := ParseYAMLSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseYAMLSnapshot returned error: %v", err)
	}

	if got := snap.Value("performance", "win_rate"); got != 88.5 {
		t.Errorf("performance.win_rate = %v, want 88.5", got)
	}
	// YAML decodes whole numbers as ints; they must still coerce.
	if got := snap.Value("inventory", "total"); got != 1450 {
		t.Errorf("inventory.total = %v, want 1450", got)
	}
	if got := snap.Value("performance", "contribution_margin"); got != 5 {
		t.Errorf("performance.contribution_margin = %v, want 5", got)
	}
}

func TestParseJSONDashboard(t *testing.T) {
	input := `{
		"as_of": "2026-02-14",
		"velocity": {"daily_avg_sales": 24.5, "q1_revenue": 410000000, "q1_sales": 1057, "avg_home_price": 387890},
		"pnl": {"win_rate": 91.2, "wins": 964, "losses": 93},
		"top_markets": [{"city": "Phoenix", "listings": 180, "avg_price": 410000}]
	}`

	d, err := ParseJSONDashboard(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseJSONDashboard returned error: %v", err)
	}

	if d.Velocity.DailyAvgSales != 24.5 {
		t.Errorf("daily_avg_sales = %v, want 24.5", d.Velocity.DailyAvgSales)
	}
	if d.PNL.Wins != 964 {
		t.Errorf("wins = %d, want 964", d.PNL.Wins)
	}
	if len(d.TopMarkets) != 1 || d.TopMarkets[0].City != "Phoenix" {
		t.Errorf("unexpected top markets: %+v", d.TopMarkets)
	}
	if d.AIInsights != nil {
		t.Errorf("ai_insights should be nil when absent")
	}
}
