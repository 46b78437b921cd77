package records

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
	ErrNotFound     = errors.New("record not found")
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
	Type        RecordType
	Title       string
	Date        time.Time
	Vet         string
	Description string

	VaccineName string
	NextDueDate *time.Time
}

func (s *Service) Create(ctx context.Context, petID, createdBy string, in CreateInput) (HealthRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || strings.TrimSpace(createdBy) == "" {
		return HealthRecord{}, ErrInvalidInput
	}
	typ, ok := ParseRecordType(string(in.Type))
	if !ok {
		return HealthRecord{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return HealthRecord{}, ErrInvalidInput
	}

	rec := HealthRecord{
		ID:          uuid.NewString(),
		PetID:       petID,
		Type:        typ,
		Title:       strings.TrimSpace(in.Title),
		Date:        in.Date,
		Vet:         strings.TrimSpace(in.Vet),
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   strings.TrimSpace(createdBy),
		CreatedAt:   s.now(),
		Status:      StatusActive,
	}

	if typ == RecordTypeVaccine {
		name := strings.TrimSpace(in.VaccineName)
		if name == "" {
			return HealthRecord{}, ErrInvalidInput
		}
		if in.NextDueDate != nil && in.NextDueDate.Before(in.Date) {
			return HealthRecord{}, ErrInvalidInput
		}
		rec.Vaccine = &VaccineDetails{VaccineName: name, NextDueDate: in.NextDueDate}
		if rec.Title == "" {
			rec.Title = name
		}
	}
	if rec.Title == "" {
		return HealthRecord{}, ErrInvalidInput
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return HealthRecord{}, err
	}
	return rec, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]HealthRecord, error) {
	return s.repo.ListByPet(ctx, strings.TrimSpace(petID), filter)
}

// Recent devuelve las últimas n entradas activas, más reciente primero.
func (s *Service) Recent(ctx context.Context, petID string, n int) ([]HealthRecord, error) {
	return s.repo.ListByPet(ctx, strings.TrimSpace(petID), ListFilter{Limit: n})
}

// ListVaccinations lista las vacunas activas de la mascota, más reciente primero.
func (s *Service) ListVaccinations(ctx context.Context, petID string) ([]Vaccination, error) {
	items, err := s.repo.ListByPet(ctx, strings.TrimSpace(petID), ListFilter{
		Types: []RecordType{RecordTypeVaccine},
		Limit: MaxLimit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Vaccination, 0, len(items))
	for _, r := range items {
		v := Vaccination{RecordID: r.ID, Date: r.Date, Vet: r.Vet, VaccineName: r.Title}
		if r.Vaccine != nil {
			v.VaccineName = r.Vaccine.VaccineName
			v.NextDueDate = r.Vaccine.NextDueDate
		}
		out = append(out, v)
	}
	return out, nil
}

// Void anula una entrada de petID. Anular dos veces no es error.
func (s *Service) Void(ctx context.Context, petID, id string) (HealthRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return HealthRecord{}, ErrInvalidInput
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return HealthRecord{}, ErrNotFound
		}
		return HealthRecord{}, err
	}
	// No revelar entradas de otra mascota.
	if rec.PetID != strings.TrimSpace(petID) {
		return HealthRecord{}, ErrNotFound
	}
	if rec.Status == StatusVoided {
		return rec, nil
	}

	if err := s.repo.Void(ctx, id); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return HealthRecord{}, ErrNotFound
		}
		return HealthRecord{}, err
	}
	rec.Status = StatusVoided
	return rec, nil
}
