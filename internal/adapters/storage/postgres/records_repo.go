package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-health-core/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

const recordColumns = `
	id, pet_id,
	type, title, record_date,
	vet, description,
	vaccine_name, next_due_date,
	created_by, created_at, status`

func (r *RecordsRepo) Create(ctx context.Context, rec records.HealthRecord) error {
	var vaccineName sql.NullString
	var nextDue sql.NullTime
	if rec.Vaccine != nil {
		vaccineName = sql.NullString{String: rec.Vaccine.VaccineName, Valid: true}
		nextDue = toNullTime(rec.Vaccine.NextDueDate)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (`+recordColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		rec.ID,
		rec.PetID,
		string(rec.Type),
		rec.Title,
		rec.Date,
		rec.Vet,
		rec.Description,
		vaccineName,
		nextDue,
		rec.CreatedBy,
		rec.CreatedAt,
		string(rec.Status),
	)
	return classify(err)
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.HealthRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.HealthRecord{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM health_records WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return records.HealthRecord{}, classify(err)
	}
	return rec, nil
}

func (r *RecordsRepo) ListByPet(ctx context.Context, petID string, filter records.ListFilter) ([]records.HealthRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + recordColumns + ` FROM health_records WHERE pet_id = $1`)

	args := []any{petID}
	argN := 2

	if !filter.IncludeVoided {
		sb.WriteString(" AND status = 'active'")
	}

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND record_date >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND record_date <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	// q: búsqueda simple en title + description
	if q := strings.TrimSpace(filter.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	sb.WriteString(" ORDER BY record_date DESC, created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, filter.EffectiveLimit())

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]records.HealthRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, rec)
	}
	return out, classify(rows.Err())
}

func (r *RecordsRepo) Void(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE health_records
		SET status = 'voided'
		WHERE id = $1
	`, id)
	if err != nil {
		return classify(err)
	}
	return rowsAffected(res)
}

func scanRecord(s rowScanner) (records.HealthRecord, error) {
	var rec records.HealthRecord
	var typ, status string
	var vaccineName sql.NullString
	var nextDue sql.NullTime

	if err := s.Scan(
		&rec.ID,
		&rec.PetID,
		&typ,
		&rec.Title,
		&rec.Date,
		&rec.Vet,
		&rec.Description,
		&vaccineName,
		&nextDue,
		&rec.CreatedBy,
		&rec.CreatedAt,
		&status,
	); err != nil {
		return records.HealthRecord{}, err
	}

	rec.Type = records.RecordType(typ)
	rec.Status = records.Status(status)
	if vaccineName.Valid {
		rec.Vaccine = &records.VaccineDetails{
			VaccineName: vaccineName.String,
			NextDueDate: fromNullTime(nextDue),
		}
	}
	return rec, nil
}
