package profile

import (
	"context"

	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// GetProfile reads one profile under the caller's access rules. Guests only
// ever see the guest store; an expired or never-created guest record is a
// plain not-found and never triggers an upstream fetch.
func (s *ProfileService) GetProfile(ctx context.Context, link string, usr *user.User) (*profile.Profile, error) {
	username, err := s.ExtractUsername(link)
	if err != nil {
		return nil, err
	}

	if usr == nil {
		guest, err := s.guests.FindByUsername(ctx, username)
		if err != nil {
			return nil, apperror.WrapInternal("guest lookup", err)
		}
		if guest == nil {
			return nil, apperror.NewNotFound("profile", username)
		}
		return guest, nil
	}

	return s.resolveOwned(ctx, usr, username)
}
