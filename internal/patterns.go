package internal

import (
	"math"
	"time"
)

// Period is a nominal recurrence interval with an inclusive tolerance window in days.
type Period struct {
	Name string
	Min  int
	Max  int
}

var (
	Weekly    = Period{Name: "weekly", Min: 6, Max: 8}
	Biweekly  = Period{Name: "biweekly", Min: 13, Max: 16}
	Monthly   = Period{Name: "monthly", Min: 25, Max: 35}
	Quarterly = Period{Name: "quarterly", Min: 85, Max: 100}
	Yearly    = Period{Name: "yearly", Min: 355, Max: 375}

	Periods = []Period{Weekly, Biweekly, Monthly, Quarterly, Yearly}
)

// MinPatternHistory is the number of transactions (two gaps) a period fit needs.
const MinPatternHistory = 3

// Contains reports whether a gap falls inside the period's window.
func (p Period) Contains(gap int) bool {
	return gap >= p.Min && gap <= p.Max
}

// PeriodFit returns the fraction of gaps inside the period window.
// Histories with fewer than MinPatternHistory transactions score 0.
func PeriodFit(txs []Transaction, p Period) float64 {
	if len(txs) < MinPatternHistory {
		return 0
	}
	return gapFit(Gaps(txs), p)
}

func gapFit(gaps []int, p Period) float64 {
	if len(gaps) < MinPatternHistory-1 {
		return 0
	}
	hits := 0
	for _, g := range gaps {
		if p.Contains(g) {
			hits++
		}
	}
	return float64(hits) / float64(len(gaps))
}

// BestPeriodFit returns the period with the highest fit; ties keep the shorter period.
func BestPeriodFit(txs []Transaction) (Period, float64) {
	gaps := Gaps(txs)
	if len(txs) < MinPatternHistory {
		return Period{}, 0
	}
	var best Period
	bestFit := 0.0
	for _, p := range Periods {
		if fit := gapFit(gaps, p); fit > bestFit {
			best, bestFit = p, fit
		}
	}
	return best, bestFit
}

// DayOfMonthConsistency returns the fraction of transactions whose day of month
// is within tolerance days of the most frequent day. Empty history scores 0.
func DayOfMonthConsistency(txs []Transaction, tolerance int) float64 {
	if len(txs) == 0 {
		return 0
	}
	days := daysOfMonth(txs)
	modeDay, _ := ModeInt(days)
	hits := 0
	for _, d := range days {
		if absInt(d-modeDay) <= tolerance {
			hits++
		}
	}
	return float64(hits) / float64(len(days))
}

// AmountReference selects the center an amount band is measured around.
type AmountReference string

const (
	RefMean   AmountReference = "mean"
	RefMedian AmountReference = "median"
	RefMode   AmountReference = "mode"
)

// AmountConsistency returns the fraction of amounts within pct (0.1 = 10%) of the
// reference amount. A zero reference only accepts exact zeros. Empty history scores 0.
func AmountConsistency(txs []Transaction, pct float64, ref AmountReference) float64 {
	if len(txs) == 0 {
		return 0
	}
	amounts := absAmounts(txs)
	var center float64
	switch ref {
	case RefMean:
		center = Mean(amounts)
	case RefMode:
		center, _ = Mode(amounts)
	default:
		center = Median(amounts)
	}
	band := math.Abs(center) * pct
	hits := 0
	for _, a := range amounts {
		if math.Abs(a-center) <= band {
			hits++
		}
	}
	return float64(hits) / float64(len(amounts))
}

// AmountVariability is the coefficient of variation of absolute amounts capped at 1.
func AmountVariability(txs []Transaction) float64 {
	return math.Min(CoefficientOfVariation(absAmounts(txs)), 1)
}

// ConfidenceWeights weights the sub-scores of RecurringConfidence.
type ConfidenceWeights struct {
	Time      float64 `yaml:"time"`
	Amount    float64 `yaml:"amount"`
	Frequency float64 `yaml:"frequency"`
}

// DefaultConfidenceWeights favors timing over amount over frequency.
var DefaultConfidenceWeights = ConfidenceWeights{Time: 0.5, Amount: 0.3, Frequency: 0.2}

// RecurringConfidence combines sub-scores linearly and clips the result to [0, 1].
func RecurringConfidence(timeScore, amountScore, frequencyScore float64, w ConfidenceWeights) float64 {
	return Clip01(w.Time*timeScore + w.Amount*amountScore + w.Frequency*frequencyScore)
}

// FrequencySaturation is the occurrence count at which FrequencyScore reaches 1.
const FrequencySaturation = 6

// FrequencyScore grows linearly with the number of occurrences up to saturation.
func FrequencyScore(n int) float64 {
	return Clip01(float64(n) / FrequencySaturation)
}

// IsOncePerMonth reports whether every calendar month in txs has exactly one transaction.
// An empty history is not a monthly pattern.
func IsOncePerMonth(txs []Transaction) bool {
	if len(txs) == 0 {
		return false
	}
	byMonth := make(map[string]int)
	for _, tx := range txs {
		byMonth[monthKey(tx.Date)]++
	}
	for _, count := range byMonth {
		if count != 1 {
			return false
		}
	}
	return true
}

// DefaultAmountTolerance is the max relative change between consecutive payments.
const DefaultAmountTolerance = 0.35

// ConsecutiveWithinTolerance checks that each date-ordered amount differs from the
// previous one by at most tolerance (relative). A single transaction passes;
// an empty history does not.
func ConsecutiveWithinTolerance(txs []Transaction, tolerance float64) bool {
	if len(txs) < 2 {
		return len(txs) == 1
	}
	sorted := SortByDate(txs)
	for i := 1; i < len(sorted); i++ {
		prev := math.Abs(sorted[i-1].AmountFloat())
		curr := math.Abs(sorted[i].AmountFloat())
		if prev == 0 {
			if curr != 0 {
				return false
			}
			continue
		}
		if math.Abs(curr-prev)/prev > tolerance {
			return false
		}
	}
	return true
}

// TypicalDay returns the integer mean day of month, or 0 for an empty history.
func TypicalDay(txs []Transaction) int {
	if len(txs) == 0 {
		return 0
	}
	sum := 0
	for _, tx := range txs {
		sum += tx.Date.Day()
	}
	return sum / len(txs)
}

// Status is the lifecycle state of a recurring series.
type Status string

const (
	StatusActive  Status = "active"
	StatusStopped Status = "stopped"
)

// GracePeriodDays is how long past the typical day a payment may be late.
const GracePeriodDays = 5

// DetermineStatus decides whether a series whose last payment was lastPayment is
// still active at asOf.
func DetermineStatus(lastPayment time.Time, typicalDay int, asOf time.Time) Status {
	lastMonth := time.Date(lastPayment.Year(), lastPayment.Month(), 1, 0, 0, 0, 0, time.UTC)
	currentMonth := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)

	if !lastMonth.Before(currentMonth) {
		return StatusActive
	}

	monthsDiff := (currentMonth.Year()-lastMonth.Year())*12 + int(currentMonth.Month()-lastMonth.Month())
	if monthsDiff > 1 {
		return StatusStopped
	}

	// Paid last month: still active until the expected day plus grace
	expectedDay := typicalDay
	lastDayOfMonth := time.Date(asOf.Year(), asOf.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if expectedDay > lastDayOfMonth {
		expectedDay = lastDayOfMonth
	}
	if expectedDay < 1 {
		expectedDay = 1
	}
	expected := time.Date(asOf.Year(), asOf.Month(), expectedDay, 0, 0, 0, 0, time.UTC)
	if asOf.After(expected.AddDate(0, 0, GracePeriodDays)) {
		return StatusStopped
	}
	return StatusActive
}

// CompleteMonths returns the YYYY-MM keys fully covered by the span of txs.
// A month is complete when it lies before the last month, or the data ends on its last day.
func CompleteMonths(txs []Transaction) []string {
	if len(txs) == 0 {
		return nil
	}
	minDate, maxDate := DateSpan(txs)

	var months []string
	current := time.Date(minDate.Year(), minDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := time.Date(maxDate.Year(), maxDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(endMonth) {
		lastDay := current.AddDate(0, 1, -1).Day()
		if current.Before(endMonth) || maxDate.Day() == lastDay {
			months = append(months, monthKey(current))
		}
		current = current.AddDate(0, 1, 0)
	}
	return months
}

func daysOfMonth(txs []Transaction) []int {
	days := make([]int, len(txs))
	for i, tx := range txs {
		days[i] = tx.Date.Day()
	}
	return days
}

func absAmounts(txs []Transaction) []float64 {
	out := make([]float64, len(txs))
	for i, tx := range txs {
		out[i] = math.Abs(tx.AmountFloat())
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
