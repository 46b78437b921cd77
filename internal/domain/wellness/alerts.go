package wellness

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Umbrales de alerta sobre |PercentageDelta|; todos son estrictos (>).
const (
	weightWarningPct  = 10.0
	weightCriticalPct = 20.0
	activityDropPct   = 30.0
	foodChangePct     = 30.0
)

// Evaluate compara current con la entrada inmediatamente anterior de la misma métrica
// y devuelve las alertas que correspondan (posiblemente ninguna). Es pura: no persiste.
func Evaluate(current, previous Entry, now time.Time) []Alert {
	ch := ChangeBetween(current.Value, previous.Value)
	pct := math.Abs(ch.PercentageDelta)

	var out []Alert
	add := func(typ AlertType, sev Severity, msg string) {
		out = append(out, Alert{
			ID:              uuid.NewString(),
			PetID:           current.PetID,
			OwnerID:         current.OwnerID,
			Type:            typ,
			Severity:        sev,
			Message:         msg,
			Metric:          current.Metric,
			EntryID:         current.ID,
			PreviousEntryID: previous.ID,
			PercentageDelta: ch.PercentageDelta,
			TriggeredAt:     now,
		})
	}

	switch current.Metric {
	case MetricWeight:
		if pct <= weightWarningPct {
			break
		}
		sev := SeverityWarning
		if pct > weightCriticalPct {
			sev = SeverityCritical
		}
		typ, verb := AlertWeightGain, "increased"
		if ch.Direction == DirectionDown {
			typ, verb = AlertWeightLoss, "decreased"
		}
		add(typ, sev, changeMessage("Weight", verb, pct, previous, current))

	case MetricActivity:
		if ch.Direction == DirectionDown && pct > activityDropPct {
			add(AlertLowActivity, SeverityWarning, changeMessage("Activity", "dropped", pct, previous, current))
		}

	case MetricFood:
		if pct > foodChangePct {
			verb := "increased"
			if ch.Direction == DirectionDown {
				verb = "decreased"
			}
			add(AlertFoodChange, SeverityInfo, changeMessage("Food intake", verb, pct, previous, current))
		}

	case MetricGrowth:
		// Solo se muestra, nunca alerta.
	}

	return out
}

func changeMessage(subject, verb string, pct float64, previous, current Entry) string {
	unit := current.Metric.Unit()
	return fmt.Sprintf("%s %s %.1f%% since the previous entry (%g %s to %g %s)",
		subject, verb, pct, previous.Value, unit, current.Value, unit)
}
