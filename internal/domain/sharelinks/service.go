package sharelinks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-health-core/internal/platform/logger"
	"pet-health-core/internal/platform/storeerr"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrLinkNotFound = errors.New("share link not found")
	ErrLinkInactive = errors.New("share link inactive")
	// ErrTokenExhausted: colisiones repetidas al generar token. Es un error interno.
	ErrTokenExhausted = errors.New("could not allocate a unique share token")
)

const maxTokenAttempts = 3

// Service administra el ciclo de vida de los links (create/revoke/reactivate/list).
// El gate premium lo chequea quien llama.
type Service struct {
	repo     Repository
	pets     PetOwnerLookup
	log      logger.Logger
	metrics  instruments
	now      func() time.Time
	newToken func() (string, error)
}

func NewService(repo Repository, pets PetOwnerLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		pets:     pets,
		log:      log,
		metrics:  newInstruments(),
		now:      time.Now,
		newToken: NewToken,
	}
}

type CreateInput struct {
	PetID   string
	OwnerID string
	TTL     time.Duration // 0 => sin vencimiento
}

func (s *Service) Create(ctx context.Context, in CreateInput) (ShareLink, error) {
	petID := strings.TrimSpace(in.PetID)
	ownerID := strings.TrimSpace(in.OwnerID)
	if in.TTL < 0 {
		return ShareLink{}, ErrInvalidInput
	}
	if err := s.authorize(ctx, petID, ownerID); err != nil {
		return ShareLink{}, err
	}

	now := s.now()
	l := ShareLink{
		ID:        uuid.NewString(),
		PetID:     petID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	if in.TTL > 0 {
		exp := now.Add(in.TTL)
		l.ExpiresAt = &exp
	}

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		tok, err := s.newToken()
		if err != nil {
			return ShareLink{}, err
		}
		l.Token = tok

		err = s.repo.Create(ctx, l)
		if err == nil {
			s.metrics.linkCreated(ctx)
			return l, nil
		}
		if !errors.Is(err, storeerr.ErrConflict) {
			return ShareLink{}, err
		}
		s.log.Warn("share token collision, regenerating", map[string]any{"attempt": attempt, "pet_id": petID})
	}
	return ShareLink{}, ErrTokenExhausted
}

// Revoke deja el link inactivo. Revocar un link ya inactivo no es error.
func (s *Service) Revoke(ctx context.Context, linkID, petID, ownerID string) (ShareLink, error) {
	return s.setActive(ctx, linkID, petID, ownerID, false)
}

// Reactivate vuelve a habilitar el mismo token. Idempotente.
func (s *Service) Reactivate(ctx context.Context, linkID, petID, ownerID string) (ShareLink, error) {
	return s.setActive(ctx, linkID, petID, ownerID, true)
}

// ListActive devuelve todos los links de la mascota (activos o no), más nuevo primero.
func (s *Service) ListActive(ctx context.Context, petID, ownerID string) ([]ShareLink, error) {
	petID = strings.TrimSpace(petID)
	if err := s.authorize(ctx, petID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) setActive(ctx context.Context, linkID, petID, ownerID string, active bool) (ShareLink, error) {
	linkID = strings.TrimSpace(linkID)
	if linkID == "" || strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerID) == "" {
		return ShareLink{}, ErrInvalidInput
	}

	l, err := s.repo.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return ShareLink{}, ErrLinkNotFound
		}
		return ShareLink{}, err
	}
	if l.PetID != strings.TrimSpace(petID) || l.OwnerID != strings.TrimSpace(ownerID) {
		return ShareLink{}, ErrForbidden
	}
	if l.IsActive == active {
		return l, nil
	}

	now := s.now()
	if err := s.repo.SetActive(ctx, linkID, active, now); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return ShareLink{}, ErrLinkNotFound
		}
		return ShareLink{}, err
	}
	l.IsActive = active
	l.UpdatedAt = now

	s.metrics.linkTransition(ctx, l.State())
	s.log.Info("share link state changed", map[string]any{"link_id": l.ID, "pet_id": l.PetID, "state": string(l.State())})
	return l, nil
}

func (s *Service) authorize(ctx context.Context, petID, ownerID string) error {
	if petID == "" || strings.TrimSpace(ownerID) == "" {
		return ErrInvalidInput
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return err
	}
	if owner != strings.TrimSpace(ownerID) {
		return ErrForbidden
	}
	return nil
}
