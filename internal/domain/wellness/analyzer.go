package wellness

import (
	"math"
	"sort"
)

// Direction del cambio entre dos mediciones.
// @Enum up, down, stable
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// stableBand: un cambio de hasta 1% (inclusive) se considera estable.
const stableBand = 1.0

type Summary struct {
	Min   float64
	Max   float64
	Mean  float64
	Count int
}

// Change compara current contra previous. AbsoluteDelta conserva el signo.
type Change struct {
	AbsoluteDelta   float64
	PercentageDelta float64
	Direction       Direction
}

type SeriesPoint struct {
	Label string
	Value float64
}

// Summarize calcula min, max y media de los valores. Sin entradas devuelve Summary{}.
func Summarize(entries []Entry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}
	s := Summary{Min: entries[0].Value, Max: entries[0].Value, Count: len(entries)}
	var sum float64
	for _, e := range entries {
		s.Min = math.Min(s.Min, e.Value)
		s.Max = math.Max(s.Max, e.Value)
		sum += e.Value
	}
	s.Mean = sum / float64(len(entries))
	return s
}

// ChangeBetween: previous == 0 da PercentageDelta 0 (y por lo tanto stable).
// El porcentaje se redondea a 4 decimales antes de clasificar, para que 10 -> 11
// sea exactamente 10%.
func ChangeBetween(current, previous float64) Change {
	c := Change{AbsoluteDelta: current - previous}
	if previous != 0 {
		c.PercentageDelta = round4((current - previous) / previous * 100)
	}
	switch {
	case math.Abs(c.PercentageDelta) <= stableBand:
		c.Direction = DirectionStable
	case c.PercentageDelta > 0:
		c.Direction = DirectionUp
	default:
		c.Direction = DirectionDown
	}
	return c
}

// BuildSeries ordena de la más vieja a la más nueva y etiqueta cada punto con
// una fecha corta ("Jan 2"). No modifica entries.
func BuildSeries(entries []Entry) []SeriesPoint {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortChronological(sorted)

	out := make([]SeriesPoint, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, SeriesPoint{Label: e.Timestamp.Format("Jan 2"), Value: e.Value})
	}
	return out
}

func sortChronological(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].Seq < entries[j].Seq
	})
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
