package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-health-core/internal/domain/wellness"
)

// WellnessEntriesRepo es append-only: no hay UPDATE ni DELETE sobre wellness_entries.
type WellnessEntriesRepo struct {
	db *sql.DB
}

func NewWellnessEntriesRepo(db *sql.DB) *WellnessEntriesRepo {
	return &WellnessEntriesRepo{db: db}
}

const entryColumns = `id, pet_id, owner_user_id, metric, ts, value, unit, note, seq`

func (r *WellnessEntriesRepo) Insert(ctx context.Context, e wellness.Entry) (wellness.Entry, error) {
	// seq es BIGSERIAL: lo asigna la base en el mismo INSERT.
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO wellness_entries (id, pet_id, owner_user_id, metric, ts, value, unit, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING seq
	`,
		e.ID,
		e.PetID,
		e.OwnerID,
		string(e.Metric),
		e.Timestamp,
		e.Value,
		e.Unit,
		e.Note,
	).Scan(&e.Seq)
	if err != nil {
		return wellness.Entry{}, classify(err)
	}
	return e, nil
}

func (r *WellnessEntriesRepo) Query(ctx context.Context, petID string, metric wellness.MetricType, since *time.Time) ([]wellness.Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM wellness_entries WHERE pet_id = $1 AND metric = $2`
	args := []any{strings.TrimSpace(petID), string(metric)}
	if since != nil {
		q += ` AND ts >= $3`
		args = append(args, *since)
	}
	q += ` ORDER BY ts ASC, seq ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]wellness.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, e)
	}
	return out, classify(rows.Err())
}

func (r *WellnessEntriesRepo) LatestBefore(ctx context.Context, petID string, metric wellness.MetricType, before time.Time) (wellness.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM wellness_entries
		WHERE pet_id = $1 AND metric = $2 AND ts < $3
		ORDER BY ts DESC, seq DESC
		LIMIT 1
	`, strings.TrimSpace(petID), string(metric), before)

	e, err := scanEntry(row)
	if err != nil {
		return wellness.Entry{}, classify(err)
	}
	return e, nil
}

func scanEntry(s rowScanner) (wellness.Entry, error) {
	var e wellness.Entry
	var metric string
	if err := s.Scan(
		&e.ID,
		&e.PetID,
		&e.OwnerID,
		&metric,
		&e.Timestamp,
		&e.Value,
		&e.Unit,
		&e.Note,
		&e.Seq,
	); err != nil {
		return wellness.Entry{}, err
	}
	e.Metric = wellness.MetricType(metric)
	return e, nil
}

type WellnessAlertsRepo struct {
	db *sql.DB
}

func NewWellnessAlertsRepo(db *sql.DB) *WellnessAlertsRepo {
	return &WellnessAlertsRepo{db: db}
}

const alertColumns = `
	id, pet_id, owner_user_id,
	type, severity, message, metric,
	entry_id, previous_entry_id, percentage_delta,
	triggered_at, dismissed, dismissed_at`

func (r *WellnessAlertsRepo) Create(ctx context.Context, a wellness.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wellness_alerts (`+alertColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		a.ID,
		a.PetID,
		a.OwnerID,
		string(a.Type),
		string(a.Severity),
		a.Message,
		string(a.Metric),
		a.EntryID,
		a.PreviousEntryID,
		a.PercentageDelta,
		a.TriggeredAt,
		a.Dismissed,
		toNullTime(a.DismissedAt),
	)
	return classify(err)
}

func (r *WellnessAlertsRepo) GetByID(ctx context.Context, id string) (wellness.Alert, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return wellness.Alert{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM wellness_alerts WHERE id = $1`, id)
	a, err := scanAlert(row)
	if err != nil {
		return wellness.Alert{}, classify(err)
	}
	return a, nil
}

func (r *WellnessAlertsRepo) ListByPet(ctx context.Context, petID string, includeDismissed bool) ([]wellness.Alert, error) {
	q := `SELECT ` + alertColumns + ` FROM wellness_alerts WHERE pet_id = $1`
	if !includeDismissed {
		q += ` AND NOT dismissed`
	}
	q += ` ORDER BY triggered_at DESC`

	rows, err := r.db.QueryContext(ctx, q, strings.TrimSpace(petID))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]wellness.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, a)
	}
	return out, classify(rows.Err())
}

// Dismiss conserva el dismissed_at original si la alerta ya estaba descartada.
func (r *WellnessAlertsRepo) Dismiss(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wellness_alerts
		SET dismissed = TRUE, dismissed_at = COALESCE(dismissed_at, $2)
		WHERE id = $1
	`, strings.TrimSpace(id), at)
	if err != nil {
		return classify(err)
	}
	return rowsAffected(res)
}

func scanAlert(s rowScanner) (wellness.Alert, error) {
	var a wellness.Alert
	var typ, severity, metric string
	var dismissedAt sql.NullTime
	if err := s.Scan(
		&a.ID,
		&a.PetID,
		&a.OwnerID,
		&typ,
		&severity,
		&a.Message,
		&metric,
		&a.EntryID,
		&a.PreviousEntryID,
		&a.PercentageDelta,
		&a.TriggeredAt,
		&a.Dismissed,
		&dismissedAt,
	); err != nil {
		return wellness.Alert{}, err
	}
	a.Type = wellness.AlertType(typ)
	a.Severity = wellness.Severity(severity)
	a.Metric = wellness.MetricType(metric)
	a.DismissedAt = fromNullTime(dismissedAt)
	return a, nil
}
