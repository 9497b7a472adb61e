package signals

// Status is the traffic-light grading for a tracked metric.
type Status string

const (
	StatusGreen   Status = "green"
	StatusYellow  Status = "yellow"
	StatusRed     Status = "red"
	StatusUnknown Status = "unknown"
)

type direction int

const (
	higherBetter direction = iota
	lowerBetter
)

// band holds the green/yellow boundaries for one metric. For higher-better
// metrics green is ">= green"; for lower-better metrics green is "<= green".
type band struct {
	green  float64
	yellow float64
	dir    direction
}

// Signal thresholds per metric.
var bands = map[string]band{
	"pace":         {95.0, 80.0, higherBetter},  // guidance pace, % of target
	"win_rate":     {85.0, 70.0, higherBetter},  // overall win rate, %
	"kaz_win_rate": {90.0, 80.0, higherBetter},  // recent-era win rate, %
	"turnover":     {15.0, 10.0, higherBetter},  // inventory turnover, % per 90 days
	"months_inv":   {6.0, 12.0, lowerBetter},    // months of inventory
	"toxic_pct":    {5.0, 10.0, lowerBetter},    // toxic share of portfolio, %
	"price_cut":    {30.0, 50.0, lowerBetter},   // inventory with 3+ price cuts, %
}

// ForMetric grades a metric value GREEN/YELLOW/RED. Unrecognized metric names
// grade as unknown.
func ForMetric(metric string, value float64) Status {
	b, ok := bands[metric]
	if !ok {
		return StatusUnknown
	}

	if b.dir == higherBetter {
		switch {
		case value >= b.green:
			return StatusGreen
		case value >= b.yellow:
			return StatusYellow
		default:
			return StatusRed
		}
	}

	switch {
	case value <= b.green:
		return StatusGreen
	case value <= b.yellow:
		return StatusYellow
	default:
		return StatusRed
	}
}

// Confidence grade boundaries: coverage % of records with usable data and the
// sample size behind the metric.
const (
	ConfidenceAMinCoverage = 80.0
	ConfidenceAMinSamples  = 100
	ConfidenceBMinCoverage = 50.0
	ConfidenceBMinSamples  = 50
)

// ConfidenceGrade returns A, B, or C for a metric's data quality.
func ConfidenceGrade(coveragePct float64, sampleSize int) string {
	switch {
	case coveragePct >= ConfidenceAMinCoverage && sampleSize >= ConfidenceAMinSamples:
		return "A"
	case coveragePct >= ConfidenceBMinCoverage && sampleSize >= ConfidenceBMinSamples:
		return "B"
	default:
		return "C"
	}
}

// Cohort boundaries by days held at time of sale.
const (
	CohortNewMaxDays = 90
	CohortMidMaxDays = 180
	CohortOldMaxDays = 365
)

// Cohort buckets a holding period into new/mid/old/toxic.
func Cohort(daysHeld int) string {
	switch {
	case daysHeld < 0:
		return "unknown"
	case daysHeld < CohortNewMaxDays:
		return "new"
	case daysHeld < CohortMidMaxDays:
		return "mid"
	case daysHeld < CohortOldMaxDays:
		return "old"
	default:
		return "toxic"
	}
}
