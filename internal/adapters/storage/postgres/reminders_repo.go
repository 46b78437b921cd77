package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-health-core/internal/domain/reminders"
)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

const reminderColumns = `
	id, pet_id, owner_user_id,
	title, type, due_at, notes,
	completed, completed_at, created_at`

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (`+reminderColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rem.ID,
		rem.PetID,
		rem.OwnerUserID,
		rem.Title,
		string(rem.Type),
		rem.Date,
		rem.Notes,
		rem.Completed,
		toNullTime(rem.CompletedAt),
		rem.CreatedAt,
	)
	return classify(err)
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reminders.Reminder{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id)
	rem, err := scanReminder(row)
	if err != nil {
		return reminders.Reminder{}, classify(err)
	}
	return rem, nil
}

func (r *RemindersRepo) ListByPet(ctx context.Context, petID string, outstandingOnly bool) ([]reminders.Reminder, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	q := `SELECT ` + reminderColumns + ` FROM reminders WHERE pet_id = $1`
	if outstandingOnly {
		q += ` AND NOT completed`
	}
	q += ` ORDER BY due_at ASC`

	rows, err := r.db.QueryContext(ctx, q, petID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, rem)
	}
	return out, classify(rows.Err())
}

func (r *RemindersRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET completed = TRUE, completed_at = $2
		WHERE id = $1
	`, strings.TrimSpace(id), at)
	if err != nil {
		return classify(err)
	}
	return rowsAffected(res)
}

func scanReminder(s rowScanner) (reminders.Reminder, error) {
	var rem reminders.Reminder
	var typ string
	var completedAt sql.NullTime
	if err := s.Scan(
		&rem.ID,
		&rem.PetID,
		&rem.OwnerUserID,
		&rem.Title,
		&typ,
		&rem.Date,
		&rem.Notes,
		&rem.Completed,
		&completedAt,
		&rem.CreatedAt,
	); err != nil {
		return reminders.Reminder{}, err
	}
	rem.Type = reminders.ReminderType(typ)
	rem.CompletedAt = fromNullTime(completedAt)
	return rem, nil
}
