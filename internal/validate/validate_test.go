package validate

import (
	"strings"
	"testing"

	"github.com/maam00/glasshouse/internal/models"
)

func testDashboard() *models.Dashboard {
	return &models.Dashboard{
		Velocity: models.Velocity{
			Q1Revenue:    410_000_000,
			Q1Sales:      1057,
			AvgHomePrice: 387_890,
		},
		PNL: models.PNL{
			WinRate: 91.2,
			Wins:    964,
			Losses:  93,
		},
		TopMarkets: []models.Market{
			{City: "Phoenix", Listings: 620},
			{City: "Atlanta", Listings: 580},
		},
	}
}

func TestCheckMinimumSales(t *testing.T) {
	if r := CheckMinimumSales(1057); !r.Passed {
		t.Errorf("1057 sales should pass: %s", r.Message)
	}
	r := CheckMinimumSales(42)
	if r.Passed {
		t.Error("42 sales should fail")
	}
	if r.Severity != SeverityCritical {
		t.Errorf("severity = %s, want critical", r.Severity)
	}
}

func TestCheckRevenue(t *testing.T) {
	// 1057 * 387890 = 409,999,730 — within 5% of reported.
	if r := CheckRevenue(410_000_000, 1057*387_890); !r.Passed {
		t.Errorf("matching revenue should pass: %s", r.Message)
	}
	if r := CheckRevenue(410_000_000, 300_000_000); r.Passed {
		t.Error("27% divergence should fail")
	}
	if r := CheckRevenue(0, 300_000_000); r.Passed || r.Severity != SeverityWarning {
		t.Errorf("missing reported revenue should fail softly, got %+v", r)
	}
}

func TestCheckWinRate(t *testing.T) {
	// 964 / 1057 = 91.20%
	if r := CheckWinRate(964, 93, 91.2); !r.Passed {
		t.Errorf("matching win rate should pass: %s", r.Message)
	}
	if r := CheckWinRate(964, 93, 95.0); r.Passed {
		t.Error("inflated reported win rate should fail")
	}
	if r := CheckWinRate(0, 0, 0); r.Passed {
		t.Error("no outcomes should not pass silently")
	}
}

func TestCheckCrossSource(t *testing.T) {
	snap := models.Snapshot{"inventory": {"total": 1250}}
	markets := []models.Market{{Listings: 620}, {Listings: 580}}

	// 1200 vs 1250 tracked = 4% divergence, within tolerance.
	if r := CheckCrossSource(snap, markets); !r.Passed {
		t.Errorf("4%% divergence should pass: %s", r.Message)
	}

	far := models.Snapshot{"inventory": {"total": 2000}}
	if r := CheckCrossSource(far, markets); r.Passed {
		t.Error("40% divergence should fail")
	}

	// Missing inputs skip the check rather than failing the run.
	if r := CheckCrossSource(nil, markets); !r.Passed {
		t.Errorf("nil snapshot should skip: %s", r.Message)
	}
	if r := CheckCrossSource(snap, nil); !r.Passed {
		t.Errorf("no markets should skip: %s", r.Message)
	}
}

func TestRunAllChecks(t *testing.T) {
	report, err := Run(testDashboard(), models.Snapshot{"inventory": {"total": 1250}}, "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(report.Results) != len(CheckNames) {
		t.Fatalf("got %d results, want %d", len(report.Results), len(CheckNames))
	}
	for i, name := range CheckNames {
		if report.Results[i].Name != name {
			t.Errorf("results[%d].Name = %s, want %s", i, report.Results[i].Name, name)
		}
	}
	if !report.Passed() {
		t.Errorf("healthy dashboard should pass: %+v", report.Results)
	}
	if report.ID == "" {
		t.Error("report should have an id")
	}
}

func TestRunSingleCheck(t *testing.T) {
	report, err := Run(testDashboard(), nil, "win-rate")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Name != "win-rate" {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
}

func TestRunUnknownCheck(t *testing.T) {
	_, err := Run(testDashboard(), nil, "no-such-check")
	if err == nil {
		t.Fatal("expected error for unknown check")
	}
	if !strings.Contains(err.Error(), "no-such-check") {
		t.Errorf("error should name the bad check: %v", err)
	}
}

func TestCriticalFailures(t *testing.T) {
	d := testDashboard()
	d.PNL.Wins = 10
	d.PNL.Losses = 5
	d.PNL.WinRate = 91.2 // recalculated 66.7% diverges

	report, err := Run(d, nil, "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Passed() {
		t.Fatal("report should fail")
	}
	if report.CriticalFailures() < 2 {
		t.Errorf("CriticalFailures = %d, want at least 2 (min-sales, win-rate)", report.CriticalFailures())
	}
}
