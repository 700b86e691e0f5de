package service

import "context"

// RemoteSource fetches raw, loosely-typed profile payloads from the upstream
// data broker. Implementations retry transient failures themselves; a
// not-found from upstream surfaces as apperror.ErrNotFound and an exhausted
// or busy upstream as apperror.ErrUnavailable.
type RemoteSource interface {
	FetchByUsername(ctx context.Context, username string) (map[string]any, error)
}
