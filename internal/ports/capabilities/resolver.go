package capabilities

import "context"

// FeaturePremium es la capability que habilita sharing y wellness.
const FeaturePremium = "premium"

// PremiumResolver responde si un usuario tiene la suscripción premium.
// Lo resuelve un colaborador de billing externo; el core solo lo consulta antes de create/append.
type PremiumResolver interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// AllowAll es el resolver de modo dev: todo usuario es premium.
type AllowAll struct{}

func (AllowAll) IsPremium(context.Context, string) (bool, error) { return true, nil }
