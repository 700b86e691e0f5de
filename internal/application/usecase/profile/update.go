package profile

import (
	"context"

	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// UpdateProfile applies a field-level partial update. Fields absent from data
// stay untouched; an update that carries nothing returns the stored record
// unchanged.
func (s *ProfileService) UpdateProfile(ctx context.Context, link string, data *profile.UpdateProfile, usr *user.User) (*profile.Profile, error) {
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
		if data.IsEmpty() {
			return guest, nil
		}
		updated, err := s.guests.Update(ctx, username, data)
		if err != nil {
			return nil, apperror.WrapInternal("update guest profile", err)
		}
		return updated, nil
	}

	owned, err := s.resolveOwned(ctx, usr, username)
	if err != nil {
		return nil, err
	}
	if data.IsEmpty() {
		return owned, nil
	}

	updated, err := s.profiles.Update(ctx, owned.ID, data)
	if err != nil {
		return nil, apperror.WrapInternal("update profile", err)
	}
	return updated, nil
}
