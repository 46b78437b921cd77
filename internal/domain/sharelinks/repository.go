package sharelinks

import (
	"context"
	"time"
)

// Repository de links.
//
// Create devuelve storeerr.ErrConflict si el token ya existe.
// ListByPet ordena por CreatedAt desc.
// IncrementAccess suma 1 de forma atómica solo si el link sigue usable en now y
// devuelve el nuevo contador; si no matchea devuelve storeerr.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, l ShareLink) error
	GetByID(ctx context.Context, id string) (ShareLink, error)
	GetByToken(ctx context.Context, token string) (ShareLink, error)
	ListByPet(ctx context.Context, petID string) ([]ShareLink, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	IncrementAccess(ctx context.Context, id string, now time.Time) (int64, error)
}

// PetOwnerLookup evita importar el Service de pets en el manager.
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}
