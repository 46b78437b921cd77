package wellness

import (
	"testing"
	"time"
)

func TestChangeBetween(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		wantAbs  float64
		wantPct  float64
		wantDir  Direction
	}{
		{"increase", 11.5, 10, 1.5, 15, DirectionUp},
		{"decrease", 30, 60, -30, -50, DirectionDown},
		{"exactly one percent is stable", 10.1, 10, 0.1, 1, DirectionStable},
		{"just above one percent", 10.2, 10, 0.2, 2, DirectionUp},
		{"previous zero", 5, 0, 5, 0, DirectionStable},
		{"equal", 7, 7, 0, 0, DirectionStable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ChangeBetween(tc.current, tc.previous)
			if round4(got.AbsoluteDelta) != tc.wantAbs || got.PercentageDelta != tc.wantPct || got.Direction != tc.wantDir {
				t.Fatalf("ChangeBetween(%v, %v) = %#v", tc.current, tc.previous, got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got != (Summary{}) {
		t.Fatalf("expected zero summary, got %#v", got)
	}

	got := Summarize([]Entry{{Value: 4}, {Value: 10}, {Value: 7}})
	if got.Min != 4 || got.Max != 10 || got.Mean != 7 || got.Count != 3 {
		t.Fatalf("unexpected summary: %#v", got)
	}
}

func TestBuildSeries_ChronologicalWithShortLabels(t *testing.T) {
	jan2 := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	mar15 := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)

	in := []Entry{
		{Timestamp: mar15, Value: 3, Seq: 3},
		{Timestamp: jan2, Value: 2, Seq: 2},
		{Timestamp: jan2, Value: 1, Seq: 1},
	}
	got := BuildSeries(in)

	want := []SeriesPoint{{"Jan 2", 1}, {"Jan 2", 2}, {"Mar 15", 3}}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: expected %#v, got %#v", i, want[i], got[i])
		}
	}
	if in[0].Seq != 3 {
		t.Fatalf("BuildSeries must not reorder its input")
	}
}

func TestEvaluate_Thresholds(t *testing.T) {
	now := time.Now()
	entry := func(m MetricType, v float64, id string) Entry {
		return Entry{ID: id, PetID: "pet-1", OwnerID: "owner-1", Metric: m, Value: v}
	}

	tests := []struct {
		name     string
		metric   MetricType
		prev     float64
		cur      float64
		wantType AlertType
		wantSev  Severity
		wantNone bool
	}{
		{name: "weight gain warning", metric: MetricWeight, prev: 10, cur: 11.5, wantType: AlertWeightGain, wantSev: SeverityWarning},
		{name: "weight gain critical", metric: MetricWeight, prev: 10, cur: 12.5, wantType: AlertWeightGain, wantSev: SeverityCritical},
		{name: "weight loss warning", metric: MetricWeight, prev: 10, cur: 8.5, wantType: AlertWeightLoss, wantSev: SeverityWarning},
		{name: "weight loss critical", metric: MetricWeight, prev: 10, cur: 7, wantType: AlertWeightLoss, wantSev: SeverityCritical},
		{name: "weight exactly ten percent", metric: MetricWeight, prev: 10, cur: 11, wantNone: true},
		{name: "weight exactly twenty percent", metric: MetricWeight, prev: 10, cur: 12, wantType: AlertWeightGain, wantSev: SeverityWarning},
		{name: "activity halved", metric: MetricActivity, prev: 60, cur: 30, wantType: AlertLowActivity, wantSev: SeverityWarning},
		{name: "activity doubled", metric: MetricActivity, prev: 30, cur: 60, wantNone: true},
		{name: "food up", metric: MetricFood, prev: 200, cur: 300, wantType: AlertFoodChange, wantSev: SeverityInfo},
		{name: "food down", metric: MetricFood, prev: 300, cur: 150, wantType: AlertFoodChange, wantSev: SeverityInfo},
		{name: "food small change", metric: MetricFood, prev: 300, cur: 320, wantNone: true},
		{name: "growth never alerts", metric: MetricGrowth, prev: 10, cur: 40, wantNone: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prev := entry(tc.metric, tc.prev, "prev")
			cur := entry(tc.metric, tc.cur, "cur")
			got := Evaluate(cur, prev, now)

			if tc.wantNone {
				if len(got) != 0 {
					t.Fatalf("expected no alerts, got %#v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected exactly one alert, got %d", len(got))
			}
			a := got[0]
			if a.Type != tc.wantType || a.Severity != tc.wantSev {
				t.Fatalf("expected %s/%s, got %s/%s", tc.wantType, tc.wantSev, a.Type, a.Severity)
			}
			if a.EntryID != "cur" || a.PreviousEntryID != "prev" || a.Dismissed || a.Message == "" {
				t.Fatalf("unexpected alert: %#v", a)
			}
		})
	}
}

func TestValidateValue_Bounds(t *testing.T) {
	bounds := map[MetricType]float64{
		MetricWeight:   200,
		MetricActivity: 1440,
		MetricFood:     10000,
		MetricGrowth:   300,
	}
	for m, bound := range bounds {
		for _, ok := range []float64{0.01, bound / 2, bound} {
			if err := ValidateValue(m, ok); err != nil {
				t.Fatalf("%s=%v: unexpected error %v", m, ok, err)
			}
		}
		for _, bad := range []float64{0, -1, bound + 0.001} {
			err := ValidateValue(m, bad)
			var verr *ValidationError
			if err == nil || !errorsAs(err, &verr) || verr.Metric != m || verr.Reason == "" {
				t.Fatalf("%s=%v: expected ValidationError, got %v", m, bad, err)
			}
		}
	}

	if err := ValidateValue("mood", 3); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}
