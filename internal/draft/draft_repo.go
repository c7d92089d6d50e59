package draft

import (
	"context"
	"errors"

	"go-payrun/internal/period"
)

// ErrNotFound is returned by repositories when no draft exists for a key.
var ErrNotFound = errors.New("draft not found")

// Repository stores scratch drafts scoped to a period key. Writes are last
// write wins per key; there is no guarantee across keys. The active pointer
// records the single key an operator is currently working on.
//
//go:generate mockgen -source=draft_repo.go -destination=mock/draft_repo_mock.go -package=mock
type Repository interface {
	Get(ctx context.Context, key period.Key) (Draft, error)
	Put(ctx context.Context, d Draft) error
	Delete(ctx context.Context, key period.Key) error

	Active(ctx context.Context, operatorID string) (*period.Key, error)
	SetActive(ctx context.Context, operatorID string, key period.Key) error
	ClearActive(ctx context.Context, operatorID string) error
}
