package owners

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"pet-health-core/internal/platform/storeerr"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
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

type UpsertInput struct {
	FirstName string
	LastName  string
	Location  string
	Email     string
	Phone     string
}

func (s *Service) Upsert(ctx context.Context, userID string, in UpsertInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(in.FirstName) == "" {
		return Profile{}, ErrInvalidInput
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Profile{}, ErrInvalidInput
		}
	}

	p := Profile{
		UserID:    userID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Location:  strings.TrimSpace(in.Location),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		UpdatedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}
