package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-health-core/internal/platform/storeerr"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reminder not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title string
	Type  string
	Date  time.Time
	Notes string
}

func (s *Service) Create(ctx context.Context, petID, ownerUserID string, in CreateInput) (Reminder, error) {
	petID = strings.TrimSpace(petID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if petID == "" || ownerUserID == "" {
		return Reminder{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" || in.Date.IsZero() {
		return Reminder{}, ErrInvalidInput
	}
	typ, ok := ParseType(strings.TrimSpace(in.Type))
	if !ok {
		return Reminder{}, ErrInvalidInput
	}

	rem := Reminder{
		ID:          uuid.NewString(),
		PetID:       petID,
		OwnerUserID: ownerUserID,
		Title:       strings.TrimSpace(in.Title),
		Type:        typ,
		Date:        in.Date,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, rem); err != nil {
		return Reminder{}, err
	}
	return rem, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Reminder, error) {
	return s.repo.ListByPet(ctx, strings.TrimSpace(petID), false)
}

// ListOutstanding devuelve los recordatorios no completados.
func (s *Service) ListOutstanding(ctx context.Context, petID string) ([]Reminder, error) {
	return s.repo.ListByPet(ctx, strings.TrimSpace(petID), true)
}

// Complete marca el recordatorio como hecho. Repetirlo devuelve el mismo estado sin error.
func (s *Service) Complete(ctx context.Context, petID, id string) (Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Reminder{}, ErrInvalidInput
	}

	rem, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	if rem.PetID != strings.TrimSpace(petID) {
		return Reminder{}, ErrNotFound
	}
	if rem.Completed {
		return rem, nil
	}

	at := s.now()
	if err := s.repo.MarkCompleted(ctx, id, at); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	rem.Completed = true
	rem.CompletedAt = &at
	return rem, nil
}
