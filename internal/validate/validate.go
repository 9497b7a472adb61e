package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/maam00/glasshouse/internal/models"
)

// Severity of a failed check.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Tolerances for data-accuracy checks. Relative where fractional.
const (
	MinRecentSales       = 100  // alert when fewer sales than this exist
	WinRateTolerance     = 0.01 // reported vs recalculated win rate
	RevenueTolerance     = 0.05 // reported vs calculated revenue
	CrossSourceTolerance = 0.10 // tracker vs market-feed listing totals
)

// Result of a single validation check.
type Result struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Report aggregates a validation run.
type Report struct {
	ID      string    `json:"id"`
	RanAt   time.Time `json:"ran_at"`
	Results []Result  `json:"results"`
}

// Passed reports whether every check passed.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// CriticalFailures counts failed checks at critical severity.
func (r Report) CriticalFailures() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed && res.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// CheckNames lists the individual checks in run order.
var CheckNames = []string{"min-sales", "revenue", "win-rate", "cross-source"}

// Run executes the validation checks against the dashboard document and the
// current snapshot. only limits the run to a single named check; empty means
// all. The snapshot may be nil, which skips the cross-source check.
func Run(d *models.Dashboard, snap models.Snapshot, only string) (Report, error) {
	report := Report{
		ID:    uuid.New().String(),
		RanAt: time.Now(),
	}

	checks := map[string]func() Result{
		"min-sales":    func() Result { return CheckMinimumSales(d.PNL.Wins + d.PNL.Losses) },
		"revenue":      func() Result { return CheckRevenue(d.Velocity.Q1Revenue, float64(d.Velocity.Q1Sales)*d.Velocity.AvgHomePrice) },
		"win-rate":     func() Result { return CheckWinRate(d.PNL.Wins, d.PNL.Losses, d.PNL.WinRate) },
		"cross-source": func() Result { return CheckCrossSource(snap, d.TopMarkets) },
	}

	for _, name := range CheckNames {
		if only != "" && only != name {
			continue
		}
		report.Results = append(report.Results, checks[name]())
	}

	if len(report.Results) == 0 {
		return report, fmt.Errorf("unknown check: %s (valid: min-sales, revenue, win-rate, cross-source)", only)
	}

	return report, nil
}

// CheckMinimumSales flags suspiciously small sold-home counts, which usually
// mean an import dropped rows.
func CheckMinimumSales(totalSales int) Result {
	r := Result{Name: "min-sales", Passed: true, Severity: SeverityCritical}
	if totalSales < MinRecentSales {
		r.Passed = false
		r.Message = fmt.Sprintf("only %d sales on record, expected at least %d", totalSales, MinRecentSales)
		return r
	}
	r.Message = fmt.Sprintf("%d sales on record", totalSales)
	return r
}

// CheckRevenue compares reported quarterly revenue against homes-sold times
// average price.
func CheckRevenue(reported, calculated float64) Result {
	r := Result{Name: "revenue", Passed: true, Severity: SeverityCritical}
	if reported <= 0 {
		r.Severity = SeverityWarning
		r.Passed = false
		r.Message = "no reported revenue to validate"
		return r
	}

	diff := math.Abs(reported-calculated) / reported
	if diff > RevenueTolerance {
		r.Passed = false
		r.Message = fmt.Sprintf("reported revenue $%.0f differs from calculated $%.0f by %.1f%% (tolerance %.0f%%)",
			reported, calculated, diff*100, RevenueTolerance*100)
		return r
	}
	r.Message = fmt.Sprintf("reported revenue within %.1f%% of calculated", diff*100)
	return r
}

// CheckWinRate recomputes the win rate from win/loss counts and compares it
// to the reported figure.
func CheckWinRate(wins, losses int, reported float64) Result {
	r := Result{Name: "win-rate", Passed: true, Severity: SeverityCritical}
	total := wins + losses
	if total == 0 {
		r.Severity = SeverityWarning
		r.Passed = false
		r.Message = "no sold homes to recompute win rate from"
		return r
	}

	calculated := float64(wins) / float64(total) * 100
	diff := math.Abs(calculated-reported) / 100
	if diff > WinRateTolerance {
		r.Passed = false
		r.Message = fmt.Sprintf("reported win rate %.1f%% differs from recalculated %.1f%%",
			reported, calculated)
		return r
	}
	r.Message = fmt.Sprintf("win rate %.1f%% matches %d/%d outcomes", reported, wins, total)
	return r
}

// CheckCrossSource compares the tracker's inventory total against the sum of
// per-market listings from the market feed.
func CheckCrossSource(snap models.Snapshot, markets []models.Market) Result {
	r := Result{Name: "cross-source", Passed: true, Severity: SeverityWarning}

	if snap == nil || len(markets) == 0 {
		r.Message = "cross-source data unavailable, check skipped"
		return r
	}

	tracked := snap.Value("inventory", "total")
	if tracked <= 0 {
		r.Message = "no tracked inventory to compare"
		return r
	}

	feedTotal := 0
	for _, m := range markets {
		feedTotal += m.Listings
	}

	diff := math.Abs(tracked-float64(feedTotal)) / tracked
	if diff > CrossSourceTolerance {
		r.Passed = false
		r.Message = fmt.Sprintf("tracker inventory %.0f vs market feed %d differs by %.1f%% (tolerance %.0f%%)",
			tracked, feedTotal, diff*100, CrossSourceTolerance*100)
		return r
	}
	r.Message = fmt.Sprintf("tracker and market feed inventory agree within %.1f%%", diff*100)
	return r
}
