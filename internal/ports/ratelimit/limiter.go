package ratelimit

import (
	"context"
	"time"
)

// Limiter decide si una request identificada por key entra en la ventana actual.
// Cuando no entra, retryAfter indica cuánto falta para que se abra la siguiente.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// Unlimited deja pasar todo. Se usa en tests y cuando no hay límite configurado.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }
