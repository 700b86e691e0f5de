package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foliolab/folio-api/internal/domain/profile"
)

// Transformer normalizes a raw upstream payload into a Profile aggregate.
// Authenticated transforms may relocate media under the owner's folder.
type Transformer interface {
	Transform(ctx context.Context, raw map[string]any, authenticated bool, ownerID *uuid.UUID) (*profile.Profile, error)
}
