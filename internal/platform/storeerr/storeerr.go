// Package storeerr define los errores comunes que devuelven los adapters de storage.
package storeerr

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrTransient: store no disponible o timeout. El caller puede reintentar con backoff.
	ErrTransient = errors.New("store temporarily unavailable")
)

// Transient envuelve err marcándolo como transitorio sin perder la causa.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransient) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTransient) ||
		errors.Is(err, context.DeadlineExceeded)
}
