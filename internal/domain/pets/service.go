package pets

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-health-core/internal/platform/storeerr"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")
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
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Weight    float64
	Color     string
	Emoji     string
	Microchip string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	species, ok := ParseSpecies(strings.TrimSpace(in.Species))
	if !ok {
		return Pet{}, ErrInvalidInput
	}
	sex, ok := ParseSex(strings.TrimSpace(in.Sex))
	if !ok {
		return Pet{}, ErrInvalidInput
	}
	if !validWeight(in.Weight) {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		BirthDate:   in.BirthDate,
		Weight:      in.Weight,
		Color:       strings.TrimSpace(in.Color),
		Emoji:       strings.TrimSpace(in.Emoji),
		Microchip:   strings.TrimSpace(in.Microchip),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Emoji == "" {
		p.Emoji = species.DefaultEmoji()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}

// GetOwned devuelve la mascota solo si pertenece a ownerUserID.
func (s *Service) GetOwned(ctx context.Context, id, ownerUserID string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != strings.TrimSpace(ownerUserID) {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerUserID))
}

// PatchBirthDate distingue "no enviado" de "null" (limpiar).
type PatchBirthDate struct {
	Present bool
	Value   *time.Time
}

// UpdateProfileInput usa punteros para PATCH real: nil = no tocar.
type UpdateProfileInput struct {
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate PatchBirthDate
	Weight    *float64
	Color     *string
	Emoji     *string
	Microchip *string
	Notes     *string
}

func (s *Service) UpdateProfile(ctx context.Context, petID, ownerUserID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetOwned(ctx, petID, ownerUserID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Species != nil {
		sp, ok := ParseSpecies(strings.TrimSpace(*in.Species))
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		p.Species = sp
	}
	if in.Sex != nil {
		sx, ok := ParseSex(strings.TrimSpace(*in.Sex))
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		p.Sex = sx
	}
	if in.Weight != nil {
		if !validWeight(*in.Weight) {
			return Pet{}, ErrInvalidInput
		}
		p.Weight = *in.Weight
	}
	if in.BirthDate.Present {
		p.BirthDate = in.BirthDate.Value
	}
	setTrimmed(&p.Breed, in.Breed)
	setTrimmed(&p.Color, in.Color)
	setTrimmed(&p.Microchip, in.Microchip)
	setTrimmed(&p.Notes, in.Notes)
	setTrimmed(&p.Emoji, in.Emoji)
	if p.Emoji == "" {
		p.Emoji = p.Species.DefaultEmoji()
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsNaN(w) && !math.IsInf(w, 0)
}
