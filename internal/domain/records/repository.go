package records

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r HealthRecord) error
	GetByID(ctx context.Context, id string) (HealthRecord, error)
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]HealthRecord, error)
	Void(ctx context.Context, id string) error
}

// ListFilter: resultados ordenados por Date desc. Limit <= 0 usa DefaultLimit.
type ListFilter struct {
	Types         []RecordType
	From          *time.Time
	To            *time.Time
	Query         string
	Limit         int
	IncludeVoided bool
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// EffectiveLimit normaliza Limit al rango [1, MaxLimit].
func (f ListFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}
