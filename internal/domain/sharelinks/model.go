package sharelinks

import "time"

// State del link. No existe estado terminal: revoke y reactivate alternan.
// @Enum active, inactive
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"
)

// ShareLink es una capability: quien tenga el Token ve la proyección de una mascota.
// PetID, OwnerID y Token no cambian nunca; AccessCount solo crece.
type ShareLink struct {
	ID      string
	PetID   string
	OwnerID string
	Token   string

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt *time.Time

	AccessCount int64
	IsActive    bool
}

func (l ShareLink) State() State {
	if l.IsActive {
		return StateActive
	}
	return StateInactive
}

// Expired es true si tiene vencimiento y now ya lo alcanzó.
func (l ShareLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// Usable: activo y no vencido.
func (l ShareLink) Usable(now time.Time) bool {
	return l.IsActive && !l.Expired(now)
}
