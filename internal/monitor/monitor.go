package monitor

import (
	"fmt"
	"math"
	"strings"

	"github.com/maam00/glasshouse/internal/models"
)

// Level classifies alert severity.
type Level string

const (
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Alert is a single threshold breach detected between snapshots. Alerts are
// built fresh on every evaluation and carry fully formed messages.
type Alert struct {
	Level     Level   `json:"level"`
	Metric    string  `json:"metric"`
	Message   string  `json:"message"`
	OldValue  float64 `json:"old_value"`
	NewValue  float64 `json:"new_value"`
	ChangePct float64 `json:"change_pct"`
}

// Alert thresholds. Fixed at compile time, not runtime-configurable.
const (
	// NewCohortWinRateMin is the win rate below which the new cohort raises a
	// critical alert.
	NewCohortWinRateMin = 95.0

	// ContributionMarginMin is the margin below which a warning is raised.
	ContributionMarginMin = 5.0

	// ContributionMarginMax is the top of the target range. Informational
	// only; no check reads it yet.
	ContributionMarginMax = 7.0

	// WowChangeWarning is the week-over-week change magnitude (%) that
	// triggers a warning.
	WowChangeWarning = 10.0
)

// wowMetrics are the tracked metrics for the week-over-week check, in the
// order they are evaluated.
var wowMetrics = []struct {
	section string
	key     string
	name    string
}{
	{"performance", "win_rate", "Overall win rate"},
	{"performance", "contribution_margin", "Contribution margin"},
	{"inventory", "total", "Total listings"},
}

// Monitor evaluates the fixed alert rules over a current snapshot and an
// optional previous one. It performs no I/O and never fails: absent sections
// and keys read as zero, and trend checks are skipped without a baseline.
type Monitor struct {
	current  models.Snapshot
	previous models.Snapshot
}

// New creates a monitor. previous may be nil when no baseline exists yet; the
// toxic-trend and week-over-week checks emit nothing in that case.
func New(current, previous models.Snapshot) *Monitor {
	return &Monitor{current: current, previous: previous}
}

// CheckAll runs every alert check in fixed order and concatenates the
// results. Safe to call concurrently from separate monitors.
func (m *Monitor) CheckAll() []Alert {
	var alerts []Alert
	alerts = append(alerts, m.checkNewCohort()...)
	alerts = append(alerts, m.checkContributionMargin()...)
	alerts = append(alerts, m.checkToxicTrend()...)
	alerts = append(alerts, m.checkWowChanges()...)
	return alerts
}

// checkNewCohort raises a critical alert when the new-cohort win rate is
// below threshold. A zero rate means no cohort data yet, not a failure.
func (m *Monitor) checkNewCohort() []Alert {
	winRate := m.current.Value("cohort_new", "win_rate")
	if winRate <= 0 || winRate >= NewCohortWinRateMin {
		return nil
	}

	return []Alert{{
		Level:  LevelCritical,
		Metric: "new_cohort_win_rate",
		Message: fmt.Sprintf("New cohort win rate %.1f%% below %.1f%% threshold",
			winRate, NewCohortWinRateMin),
		OldValue:  NewCohortWinRateMin,
		NewValue:  winRate,
		ChangePct: (winRate - NewCohortWinRateMin) / NewCohortWinRateMin * 100,
	}}
}

// checkContributionMargin warns when the overall contribution margin is below
// the minimum target. Zero means the metric is not populated yet.
func (m *Monitor) checkContributionMargin() []Alert {
	margin := m.current.Value("performance", "contribution_margin")
	if margin <= 0 || margin >= ContributionMarginMin {
		return nil
	}

	return []Alert{{
		Level:  LevelWarning,
		Metric: "contribution_margin",
		Message: fmt.Sprintf("Contribution margin %.2f%% below %.1f%% target",
			margin, ContributionMarginMin),
		OldValue:  ContributionMarginMin,
		NewValue:  margin,
		ChangePct: (margin - ContributionMarginMin) / ContributionMarginMin * 100,
	}}
}

// checkToxicTrend warns on any growth of the toxic inventory count.
func (m *Monitor) checkToxicTrend() []Alert {
	if m.previous == nil {
		return nil
	}

	curr := m.current.Value("toxic", "remaining_count")
	prev := m.previous.Value("toxic", "remaining_count")
	if curr <= prev {
		return nil
	}

	// An increase from zero still signals 100% growth rather than dividing
	// by zero.
	changePct := 100.0
	if prev > 0 {
		changePct = (curr - prev) / prev * 100
	}

	return []Alert{{
		Level:     LevelWarning,
		Metric:    "toxic_remaining",
		Message:   fmt.Sprintf("Toxic inventory increased: %.0f -> %.0f", prev, curr),
		OldValue:  prev,
		NewValue:  curr,
		ChangePct: changePct,
	}}
}

// checkWowChanges warns when any tracked metric moved more than the
// week-over-week threshold in either direction. Metrics without a positive
// baseline are skipped: no division by zero, no false positives.
func (m *Monitor) checkWowChanges() []Alert {
	if m.previous == nil {
		return nil
	}

	var alerts []Alert
	for _, metric := range wowMetrics {
		curr := m.current.Value(metric.section, metric.key)
		prev := m.previous.Value(metric.section, metric.key)
		if prev <= 0 {
			continue
		}

		changePct := (curr - prev) / prev * 100
		if math.Abs(changePct) <= WowChangeWarning {
			continue
		}

		direction := "increased"
		if changePct < 0 {
			direction = "decreased"
		}

		alerts = append(alerts, Alert{
			Level:  LevelWarning,
			Metric: metric.section + "." + metric.key,
			Message: fmt.Sprintf("%s %s %.1f%% WoW",
				metric.name, direction, math.Abs(changePct)),
			OldValue:  prev,
			NewValue:  curr,
			ChangePct: changePct,
		})
	}

	return alerts
}

// FormatAlerts renders alerts as display strings of the form
// "[LEVEL] message", preserving order.
func FormatAlerts(alerts []Alert) []string {
	formatted := make([]string, 0, len(alerts))
	for _, a := range alerts {
		formatted = append(formatted,
			fmt.Sprintf("[%s] %s", strings.ToUpper(string(a.Level)), a.Message))
	}
	return formatted
}
