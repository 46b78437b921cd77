package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota.
// Lo consumen sharelinks y wellness sin importar el Service completo.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
