package reminders

import (
	"context"
	"time"
)

// Repository ordena los listados por Date asc (el próximo primero).
type Repository interface {
	Create(ctx context.Context, r Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	ListByPet(ctx context.Context, petID string, outstandingOnly bool) ([]Reminder, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}
