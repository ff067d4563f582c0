package out

import (
	"context"

	"tracky/internal/modules/tracker/domain"
)

// StateStore loads the whole App before an operation and saves it after.
// Load returns an empty App when nothing has been persisted yet.
type StateStore interface {
	Load(ctx context.Context) (*domain.App, error)
	Save(ctx context.Context, app *domain.App) error
}
