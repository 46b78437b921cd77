package wellness

import (
	"context"
	"time"
)

// EntryRepository persiste entradas. No existe update ni delete.
//
// Insert asigna Seq y devuelve la entrada guardada.
// Query devuelve las entradas con Timestamp >= since (todas si since es nil),
// ordenadas por Timestamp asc y luego Seq asc.
// LatestBefore devuelve la entrada con el mayor Timestamp estrictamente menor a before;
// a igual Timestamp gana el Seq más alto. Sin resultado => storeerr.ErrNotFound.
type EntryRepository interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	Query(ctx context.Context, petID string, metric MetricType, since *time.Time) ([]Entry, error)
	LatestBefore(ctx context.Context, petID string, metric MetricType, before time.Time) (Entry, error)
}

// AlertRepository: ListByPet ordena por TriggeredAt desc.
type AlertRepository interface {
	Create(ctx context.Context, a Alert) error
	GetByID(ctx context.Context, id string) (Alert, error)
	ListByPet(ctx context.Context, petID string, includeDismissed bool) ([]Alert, error)
	Dismiss(ctx context.Context, id string, at time.Time) error
}

// PetOwnerLookup es lo único que wellness necesita saber de pets.
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

// AlertNotifier entrega alertas nuevas al despachador de push externo.
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, a Alert) error
}

type NopNotifier struct{}

func (NopNotifier) NotifyAlert(context.Context, Alert) error { return nil }
