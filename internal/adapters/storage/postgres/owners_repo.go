package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-health-core/internal/domain/owners"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

func (r *OwnersRepo) Upsert(ctx context.Context, p owners.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO owner_profiles (
			user_id, first_name, last_name, location, email, phone, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			location = EXCLUDED.location,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.Location,
		p.Email,
		p.Phone,
		p.UpdatedAt,
	)
	return classify(err)
}

func (r *OwnersRepo) Get(ctx context.Context, userID string) (owners.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return owners.Profile{}, ErrNotFound
	}

	var p owners.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, location, email, phone, updated_at
		FROM owner_profiles
		WHERE user_id = $1
	`, userID).Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Location,
		&p.Email,
		&p.Phone,
		&p.UpdatedAt,
	)
	if err != nil {
		return owners.Profile{}, classify(err)
	}
	return p, nil
}
