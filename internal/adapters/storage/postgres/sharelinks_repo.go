package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-health-core/internal/domain/sharelinks"
)

type ShareLinksRepo struct {
	db *sql.DB
}

func NewShareLinksRepo(db *sql.DB) *ShareLinksRepo {
	return &ShareLinksRepo{db: db}
}

const shareLinkColumns = `
	id, pet_id, owner_user_id, token,
	created_at, updated_at, expires_at,
	access_count, is_active`

// Create devuelve storeerr.ErrConflict si el token ya existe (índice único).
func (r *ShareLinksRepo) Create(ctx context.Context, l sharelinks.ShareLink) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO share_links (`+shareLinkColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		l.ID,
		l.PetID,
		l.OwnerID,
		l.Token,
		l.CreatedAt,
		l.UpdatedAt,
		toNullTime(l.ExpiresAt),
		l.AccessCount,
		l.IsActive,
	)
	return classify(err)
}

func (r *ShareLinksRepo) GetByID(ctx context.Context, id string) (sharelinks.ShareLink, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return sharelinks.ShareLink{}, ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+shareLinkColumns+` FROM share_links WHERE id = $1`, id)
}

func (r *ShareLinksRepo) GetByToken(ctx context.Context, token string) (sharelinks.ShareLink, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return sharelinks.ShareLink{}, ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+shareLinkColumns+` FROM share_links WHERE token = $1`, token)
}

func (r *ShareLinksRepo) getOne(ctx context.Context, q string, arg string) (sharelinks.ShareLink, error) {
	l, err := scanShareLink(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		return sharelinks.ShareLink{}, classify(err)
	}
	return l, nil
}

func (r *ShareLinksRepo) ListByPet(ctx context.Context, petID string) ([]sharelinks.ShareLink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shareLinkColumns+`
		FROM share_links
		WHERE pet_id = $1
		ORDER BY created_at DESC
	`, strings.TrimSpace(petID))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]sharelinks.ShareLink, 0)
	for rows.Next() {
		l, err := scanShareLink(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, l)
	}
	return out, classify(rows.Err())
}

func (r *ShareLinksRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE share_links
		SET is_active = $2, updated_at = $3
		WHERE id = $1
	`, strings.TrimSpace(id), active, at)
	if err != nil {
		return classify(err)
	}
	return rowsAffected(res)
}

// IncrementAccess cuenta un acceso solo si el link sigue activo y vigente.
// Es un único UPDATE condicional: accesos concurrentes no se pierden
// y una revocación concurrente gana. Sin fila afectada => ErrNotFound.
func (r *ShareLinksRepo) IncrementAccess(ctx context.Context, id string, now time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE share_links
		SET access_count = access_count + 1
		WHERE id = $1
		  AND is_active
		  AND (expires_at IS NULL OR expires_at > $2)
		RETURNING access_count
	`, strings.TrimSpace(id), now).Scan(&count)
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func scanShareLink(s rowScanner) (sharelinks.ShareLink, error) {
	var l sharelinks.ShareLink
	var expiresAt sql.NullTime
	if err := s.Scan(
		&l.ID,
		&l.PetID,
		&l.OwnerID,
		&l.Token,
		&l.CreatedAt,
		&l.UpdatedAt,
		&expiresAt,
		&l.AccessCount,
		&l.IsActive,
	); err != nil {
		return sharelinks.ShareLink{}, err
	}
	l.ExpiresAt = fromNullTime(expiresAt)
	return l, nil
}
