package owners

import "context"

type Repository interface {
	Upsert(ctx context.Context, p Profile) error
	Get(ctx context.Context, userID string) (Profile, error)
}
