package service

import "context"

// TokenVerifier validates anti-abuse challenge tokens for unauthenticated
// profile creation.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, remoteIP string) error
}
