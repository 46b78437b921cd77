package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-health-core/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_user_id,
	name, species, breed, sex,
	birth_date, weight_kg, color, emoji,
	microchip, notes,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullTime(p.BirthDate),
		p.Weight,
		p.Color,
		p.Emoji,
		p.Microchip,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return classify(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			birth_date = $6,
			weight_kg = $7,
			color = $8,
			emoji = $9,
			microchip = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullTime(p.BirthDate),
		p.Weight,
		p.Color,
		p.Emoji,
		p.Microchip,
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return classify(err)
	}
	return rowsAffected(res)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, classify(err)
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, p)
	}
	return out, classify(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species, sex string
	var bd sql.NullTime
	if err := s.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&species,
		&p.Breed,
		&sex,
		&bd,
		&p.Weight,
		&p.Color,
		&p.Emoji,
		&p.Microchip,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	// birth_date es DATE: pgx lo devuelve como medianoche UTC.
	p.BirthDate = fromNullTime(bd)
	return p, nil
}
