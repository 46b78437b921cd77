package wellness

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"pet-health-core/internal/platform/storeerr"
)

func errorsAs(err error, target any) bool { return errors.As(err, target) }

type fakeEntries struct {
	mu      sync.Mutex
	seq     int64
	entries []Entry
	inserts int
}

func (f *fakeEntries) Insert(_ context.Context, e Entry) (Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.Seq = f.seq
	f.entries = append(f.entries, e)
	f.inserts++
	return e, nil
}

func (f *fakeEntries) Query(_ context.Context, petID string, metric MetricType, since *time.Time) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range f.entries {
		if e.PetID != petID || e.Metric != metric {
			continue
		}
		if since != nil && e.Timestamp.Before(*since) {
			continue
		}
		out = append(out, e)
	}
	sortChronological(out)
	return out, nil
}

func (f *fakeEntries) LatestBefore(_ context.Context, petID string, metric MetricType, before time.Time) (Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *Entry
	for i := range f.entries {
		e := f.entries[i]
		if e.PetID != petID || e.Metric != metric || !e.Timestamp.Before(before) {
			continue
		}
		if best == nil || e.Timestamp.After(best.Timestamp) || (e.Timestamp.Equal(best.Timestamp) && e.Seq > best.Seq) {
			best = &f.entries[i]
		}
	}
	if best == nil {
		return Entry{}, storeerr.ErrNotFound
	}
	return *best, nil
}

type fakeAlerts struct {
	byID      map[string]Alert
	createErr error
	dismisses int
}

func newFakeAlerts() *fakeAlerts { return &fakeAlerts{byID: map[string]Alert{}} }

func (f *fakeAlerts) Create(_ context.Context, a Alert) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAlerts) GetByID(_ context.Context, id string) (Alert, error) {
	a, ok := f.byID[id]
	if !ok {
		return Alert{}, storeerr.ErrNotFound
	}
	return a, nil
}

func (f *fakeAlerts) ListByPet(_ context.Context, petID string, includeDismissed bool) ([]Alert, error) {
	out := make([]Alert, 0)
	for _, a := range f.byID {
		if a.PetID == petID && (includeDismissed || !a.Dismissed) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TriggeredAt.After(out[j].TriggeredAt) })
	return out, nil
}

func (f *fakeAlerts) Dismiss(_ context.Context, id string, at time.Time) error {
	a, ok := f.byID[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	f.dismisses++
	a.Dismissed = true
	a.DismissedAt = &at
	f.byID[id] = a
	return nil
}

type fakeOwners map[string]string

func (f fakeOwners) OwnerOf(_ context.Context, petID string) (string, error) {
	o, ok := f[petID]
	if !ok {
		return "", errors.New("pet not found")
	}
	return o, nil
}

type recordingNotifier struct {
	got []Alert
	err error
}

func (n *recordingNotifier) NotifyAlert(_ context.Context, a Alert) error {
	n.got = append(n.got, a)
	return n.err
}

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeEntries, *fakeAlerts, *recordingNotifier) {
	entries := &fakeEntries{}
	alerts := newFakeAlerts()
	notifier := &recordingNotifier{}
	svc := NewService(entries, alerts, fakeOwners{"pet-1": "owner-1"}, WithNotifier(notifier))
	svc.now = func() time.Time { return t0.AddDate(0, 0, 30) }
	return svc, entries, alerts, notifier
}

func record(t *testing.T, svc *Service, m MetricType, v float64, at time.Time) RecordResult {
	t.Helper()
	res, err := svc.Record(context.Background(), "owner-1", RecordInput{PetID: "pet-1", Metric: m, Value: v, Timestamp: at})
	if err != nil {
		t.Fatalf("Record(%s=%v) error: %v", m, v, err)
	}
	return res
}

func TestService_Record_WeightGainWarning(t *testing.T) {
	svc, _, _, notifier := newTestService()

	first := record(t, svc, MetricWeight, 10.0, t0)
	if len(first.Alerts) != 0 {
		t.Fatalf("first entry must not alert, got %d", len(first.Alerts))
	}
	if first.Entry.Unit != "kg" || first.Entry.ID == "" {
		t.Fatalf("unexpected entry: %#v", first.Entry)
	}

	second := record(t, svc, MetricWeight, 11.5, t0.Add(24*time.Hour))
	if len(second.Alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(second.Alerts))
	}
	a := second.Alerts[0]
	if a.Type != AlertWeightGain || a.Severity != SeverityWarning {
		t.Fatalf("expected weight_gain/warning, got %s/%s", a.Type, a.Severity)
	}
	if a.EntryID != second.Entry.ID || a.PreviousEntryID != first.Entry.ID {
		t.Fatalf("alert not attributed to its entry pair: %#v", a)
	}
	if len(notifier.got) != 1 || notifier.got[0].ID != a.ID {
		t.Fatalf("expected alert to be notified, got %#v", notifier.got)
	}
}

func TestService_Record_ConcreteScenarios(t *testing.T) {
	tests := []struct {
		name     string
		metric   MetricType
		first    float64
		second   float64
		wantType AlertType
		wantSev  Severity
		wantNone bool
	}{
		{name: "weight critical", metric: MetricWeight, first: 10, second: 12.5, wantType: AlertWeightGain, wantSev: SeverityCritical},
		{name: "activity low", metric: MetricActivity, first: 60, second: 30, wantType: AlertLowActivity, wantSev: SeverityWarning},
		{name: "growth none", metric: MetricGrowth, first: 20, second: 60, wantNone: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _ := newTestService()
			record(t, svc, tc.metric, tc.first, t0)
			res := record(t, svc, tc.metric, tc.second, t0.Add(time.Hour))

			if tc.wantNone {
				if len(res.Alerts) != 0 {
					t.Fatalf("expected no alerts, got %#v", res.Alerts)
				}
				return
			}
			if len(res.Alerts) != 1 || res.Alerts[0].Type != tc.wantType || res.Alerts[0].Severity != tc.wantSev {
				t.Fatalf("unexpected alerts: %#v", res.Alerts)
			}
		})
	}
}

func TestService_Record_RejectsOutOfBoundsWithoutPersisting(t *testing.T) {
	svc, entries, _, _ := newTestService()

	for _, v := range []float64{0, -2, 200.5} {
		_, err := svc.Record(context.Background(), "owner-1", RecordInput{PetID: "pet-1", Metric: MetricWeight, Value: v, Timestamp: t0})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("value %v: expected ErrValidation, got %v", v, err)
		}
	}
	if entries.inserts != 0 {
		t.Fatalf("rejected entries must not reach the store, got %d inserts", entries.inserts)
	}
}

func TestService_Record_ForbiddenForOtherOwner(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Record(context.Background(), "intruder", RecordInput{PetID: "pet-1", Metric: MetricWeight, Value: 10, Timestamp: t0})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Record_AlertFailureKeepsEntry(t *testing.T) {
	svc, entries, alerts, notifier := newTestService()
	notifier.err = errors.New("broker down")

	record(t, svc, MetricWeight, 10, t0)
	alerts.createErr = errors.New("alerts table unavailable")

	res := record(t, svc, MetricWeight, 15, t0.Add(time.Hour))
	if len(res.Alerts) != 0 {
		t.Fatalf("no alert should be reported when it could not be stored, got %d", len(res.Alerts))
	}
	if entries.inserts != 2 {
		t.Fatalf("entry must stay persisted, got %d inserts", entries.inserts)
	}

	alerts.createErr = nil
	res = record(t, svc, MetricWeight, 20, t0.Add(2*time.Hour))
	if len(res.Alerts) != 1 {
		t.Fatalf("notifier failure must not drop the stored alert, got %d", len(res.Alerts))
	}
}

func TestService_PreviousEntryTieBreak(t *testing.T) {
	svc, _, _, _ := newTestService()

	// Dos entradas con el mismo timestamp: la de mayor Seq es la "anterior".
	record(t, svc, MetricWeight, 20, t0)
	tied := record(t, svc, MetricWeight, 10, t0)

	res := record(t, svc, MetricWeight, 11.5, t0.Add(time.Minute))
	if len(res.Alerts) != 1 || res.Alerts[0].PreviousEntryID != tied.Entry.ID {
		t.Fatalf("expected comparison against the later-inserted tied entry, got %#v", res.Alerts)
	}
	if res.Alerts[0].Type != AlertWeightGain {
		t.Fatalf("expected weight_gain, got %s", res.Alerts[0].Type)
	}
}

func TestService_Dismiss_Idempotent(t *testing.T) {
	svc, _, alerts, _ := newTestService()

	record(t, svc, MetricActivity, 60, t0)
	res := record(t, svc, MetricActivity, 30, t0.Add(time.Hour))
	id := res.Alerts[0].ID

	if _, err := svc.Dismiss(context.Background(), "intruder", id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	for i := 0; i < 2; i++ {
		a, err := svc.Dismiss(context.Background(), "owner-1", id)
		if err != nil || !a.Dismissed {
			t.Fatalf("dismiss #%d: got %#v, %v", i+1, a, err)
		}
	}
	if alerts.dismisses != 1 {
		t.Fatalf("expected one store write, got %d", alerts.dismisses)
	}
	if _, err := svc.Dismiss(context.Background(), "owner-1", "missing"); !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}

	open, _ := svc.ListAlerts(context.Background(), "owner-1", "pet-1", false)
	all, _ := svc.ListAlerts(context.Background(), "owner-1", "pet-1", true)
	if len(open) != 0 || len(all) != 1 {
		t.Fatalf("expected 0 open / 1 total alerts, got %d / %d", len(open), len(all))
	}
}

func TestService_Trend(t *testing.T) {
	svc, _, _, _ := newTestService()
	now := svc.now()

	record(t, svc, MetricWeight, 9, now.AddDate(0, -2, 0))
	record(t, svc, MetricWeight, 10, now.AddDate(0, 0, -7)) // borde inclusivo de "week"
	record(t, svc, MetricWeight, 12, now.AddDate(0, 0, -1))

	week, err := svc.Trend(context.Background(), "owner-1", "pet-1", MetricWeight, PeriodWeek)
	if err != nil {
		t.Fatalf("Trend error: %v", err)
	}
	if len(week.Entries) != 2 || week.Entries[0].Value != 12 {
		t.Fatalf("expected 2 entries latest first, got %#v", week.Entries)
	}
	if week.Series[0].Value != 10 || week.Series[1].Value != 12 {
		t.Fatalf("series must be oldest first: %#v", week.Series)
	}
	if week.Change == nil || week.Change.PercentageDelta != 20 || week.Change.Direction != DirectionUp {
		t.Fatalf("unexpected change: %#v", week.Change)
	}
	if week.Summary.Min != 10 || week.Summary.Max != 12 || week.Summary.Mean != 11 {
		t.Fatalf("unexpected summary: %#v", week.Summary)
	}

	all, _ := svc.Trend(context.Background(), "owner-1", "pet-1", MetricWeight, PeriodAll)
	if len(all.Entries) != 3 {
		t.Fatalf("expected 3 entries for all, got %d", len(all.Entries))
	}

	if _, err := svc.Trend(context.Background(), "owner-1", "pet-1", "mood", PeriodAll); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
