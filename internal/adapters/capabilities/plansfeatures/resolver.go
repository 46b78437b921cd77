package plansfeatures

import (
	"context"
	"errors"
	"strings"

	"pet-health-core/internal/ports/capabilities"
)

// Resolver implementa capabilities.PremiumResolver contra plans-features.
type Resolver struct {
	client   *Client
	allowAll bool
}

var _ capabilities.PremiumResolver = (*Resolver)(nil)

// NewResolver crea un resolver. allowAll => todo usuario es premium (modo dev / fallback).
func NewResolver(client *Client, allowAll bool) *Resolver {
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

// Has responde si userID tiene una capability.
func (r *Resolver) Has(ctx context.Context, userID string, capability string) (bool, error) {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		return false, errors.New("capability required")
	}

	if r.allowAll {
		return true, nil
	}

	// Preferimos fallar explícito en vez de permitir sin control.
	if r.client == nil || !r.client.IsConfigured() {
		return false, ErrPlansNotConfigured
	}

	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return false, err
	}
	return resp.Capabilities[capability], nil
}

func (r *Resolver) IsPremium(ctx context.Context, userID string) (bool, error) {
	return r.Has(ctx, userID, capabilities.FeaturePremium)
}
