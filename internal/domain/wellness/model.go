package wellness

import (
	"time"
)

// MetricType es la magnitud medida en una entrada.
// @Enum weight, activity, food, growth
type MetricType string

const (
	MetricWeight   MetricType = "weight"
	MetricActivity MetricType = "activity"
	MetricFood     MetricType = "food"
	MetricGrowth   MetricType = "growth"
)

func ParseMetricType(s string) (MetricType, bool) {
	switch v := MetricType(s); v {
	case MetricWeight, MetricActivity, MetricFood, MetricGrowth:
		return v, true
	default:
		return "", false
	}
}

// Unit se deriva del tipo de métrica; nunca lo elige el cliente.
func (m MetricType) Unit() string {
	switch m {
	case MetricWeight:
		return "kg"
	case MetricActivity:
		return "min"
	case MetricFood:
		return "g"
	case MetricGrowth:
		return "cm"
	default:
		return ""
	}
}

// UpperBound es el máximo plausible (inclusive) para la métrica.
func (m MetricType) UpperBound() float64 {
	switch m {
	case MetricWeight:
		return 200
	case MetricActivity:
		return 1440
	case MetricFood:
		return 10000
	case MetricGrowth:
		return 300
	default:
		return 0
	}
}

// Entry es una medición. Inmutable: una corrección es una entrada nueva.
type Entry struct {
	ID      string
	PetID   string
	OwnerID string

	Metric    MetricType
	Timestamp time.Time
	Value     float64
	Unit      string
	Note      string

	// Seq lo asigna el store al insertar; desempata entradas con el mismo Timestamp.
	Seq int64
}

// AlertType
// @Enum weight_loss, weight_gain, low_activity, food_change
type AlertType string

const (
	AlertWeightLoss  AlertType = "weight_loss"
	AlertWeightGain  AlertType = "weight_gain"
	AlertLowActivity AlertType = "low_activity"
	AlertFoodChange  AlertType = "food_change"
)

// Severity está ordenada: info < warning < critical.
// @Enum info, warning, critical
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// Alert siempre apunta al par de entradas que la originó.
type Alert struct {
	ID      string
	PetID   string
	OwnerID string

	Type     AlertType
	Severity Severity
	Message  string
	Metric   MetricType

	EntryID         string
	PreviousEntryID string
	PercentageDelta float64

	TriggeredAt time.Time
	Dismissed   bool
	DismissedAt *time.Time
}

// Period filtra consultas hacia atrás desde "ahora". El límite es inclusivo.
// @Enum week, month, 3months, year, all
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	Period3Months Period = "3months"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

func ParsePeriod(s string) (Period, bool) {
	switch v := Period(s); v {
	case PeriodWeek, PeriodMonth, Period3Months, PeriodYear, PeriodAll:
		return v, true
	case "":
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Since devuelve el instante de corte, o nil si el período no tiene límite.
func (p Period) Since(now time.Time) *time.Time {
	var t time.Time
	switch p {
	case PeriodWeek:
		t = now.AddDate(0, 0, -7)
	case PeriodMonth:
		t = now.AddDate(0, -1, 0)
	case Period3Months:
		t = now.AddDate(0, -3, 0)
	case PeriodYear:
		t = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &t
}
