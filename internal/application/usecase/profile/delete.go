package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/foliolab/folio-api/adapters/event"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// DeleteProfile removes an owned profile. The database row goes first; media
// cleanup is best effort and a failure there never undoes the delete.
func (s *ProfileService) DeleteProfile(ctx context.Context, link string, usr *user.User) error {
	if usr == nil {
		return apperror.NewUnauthorized("authentication required", nil)
	}

	username, err := s.ExtractUsername(link)
	if err != nil {
		return err
	}

	owned, err := s.resolveOwned(ctx, usr, username)
	if err != nil {
		return err
	}

	if err := s.profiles.Delete(ctx, owned.ID); err != nil {
		return apperror.WrapInternal("delete profile", err)
	}

	prefix := s.storagePrefix(usr, username)
	if err := s.relocator.DeleteFolder(ctx, prefix); err != nil {
		s.logger.Warn("profile media cleanup failed",
			zap.String("prefix", prefix), zap.Error(err))
	}
	if err := s.relocator.DeletePublicFolder(ctx, prefix); err != nil {
		s.logger.Warn("published media cleanup failed",
			zap.String("prefix", prefix), zap.Error(err))
	}

	s.logger.Info("profile deleted",
		zap.String("username", username),
		zap.String("user_id", usr.ID.String()))
	s.publishEvent(event.ProfileEventTypeDeleted, owned, usr)
	return nil
}

// DeleteUserProfiles empties the caller's whole collection, same ordering per
// profile as DeleteProfile. Dangling ownership references are skipped; the
// ownership set is cleared at the end either way.
func (s *ProfileService) DeleteUserProfiles(ctx context.Context, usr *user.User) error {
	if usr == nil {
		return apperror.NewUnauthorized("authentication required", nil)
	}

	refs := usr.ProfileIDs
	for _, id := range refs {
		p, err := s.profiles.FindByID(ctx, id)
		if err != nil {
			return apperror.WrapInternal("delete user profiles", err)
		}
		if p == nil {
			continue
		}

		if err := s.profiles.Delete(ctx, p.ID); err != nil {
			return apperror.WrapInternal("delete user profiles", err)
		}

		prefix := s.storagePrefix(usr, p.Username)
		if err := s.relocator.DeleteFolder(ctx, prefix); err != nil {
			s.logger.Warn("profile media cleanup failed",
				zap.String("prefix", prefix), zap.Error(err))
		}
		if err := s.relocator.DeletePublicFolder(ctx, prefix); err != nil {
			s.logger.Warn("published media cleanup failed",
				zap.String("prefix", prefix), zap.Error(err))
		}
		s.publishEvent(event.ProfileEventTypeDeleted, p, usr)
	}

	if err := s.users.ClearProfiles(ctx, usr.ID); err != nil {
		return apperror.WrapInternal("clear profile references", err)
	}

	s.logger.Info("user profiles deleted",
		zap.String("user_id", usr.ID.String()),
		zap.Int("count", len(refs)))
	return nil
}
