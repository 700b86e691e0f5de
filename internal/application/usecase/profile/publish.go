package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/foliolab/folio-api/adapters/event"
	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// PublishProfile sets the publishing options and copies every stored media
// file into the public area. Slug uniqueness is enforced by the store and
// surfaces as a conflict; promotion failures degrade per file.
func (s *ProfileService) PublishProfile(ctx context.Context, link string, opts profile.PublishingOptions, usr *user.User) (*profile.Profile, error) {
	if usr == nil {
		return nil, apperror.NewUnauthorized("authentication required", nil)
	}

	username, err := s.ExtractUsername(link)
	if err != nil {
		return nil, err
	}
	if opts.Slug == "" {
		return nil, apperror.NewInvalidInput("publish slug is empty", nil)
	}

	owned, err := s.resolveOwned(ctx, usr, username)
	if err != nil {
		return nil, err
	}

	updated, err := s.profiles.Update(ctx, owned.ID, &profile.UpdateProfile{PublishingOptions: &opts})
	if err != nil {
		return nil, apperror.WrapInternal("publish profile", err)
	}

	for _, ref := range updated.MediaRefs() {
		path := *ref
		// Remote URLs were never relocated; there is nothing to promote.
		if path == "" || strings.HasPrefix(path, "http") {
			continue
		}
		if _, err := s.relocator.Promote(ctx, path); err != nil {
			s.logger.Warn("media promotion failed",
				zap.String("path", path), zap.Error(err))
		}
	}

	s.logger.Info("profile published",
		zap.String("username", username),
		zap.String("slug", opts.Slug))
	s.publishEvent(event.ProfileEventTypePublished, updated, usr)
	return updated, nil
}

// UnpublishProfile clears the publishing options and removes the public media
// copies. Unpublishing an unpublished profile is a no-op.
func (s *ProfileService) UnpublishProfile(ctx context.Context, link string, usr *user.User) (*profile.Profile, error) {
	if usr == nil {
		return nil, apperror.NewUnauthorized("authentication required", nil)
	}

	username, err := s.ExtractUsername(link)
	if err != nil {
		return nil, err
	}

	owned, err := s.resolveOwned(ctx, usr, username)
	if err != nil {
		return nil, err
	}
	if owned.PublishingOptions == nil {
		return owned, nil
	}

	updated, err := s.profiles.Update(ctx, owned.ID, &profile.UpdateProfile{ClearPublishingOptions: true})
	if err != nil {
		return nil, apperror.WrapInternal("unpublish profile", err)
	}

	prefix := s.storagePrefix(usr, username)
	if err := s.relocator.DeletePublicFolder(ctx, prefix); err != nil {
		s.logger.Warn("published media cleanup failed",
			zap.String("prefix", prefix), zap.Error(err))
	}

	s.logger.Info("profile unpublished", zap.String("username", username))
	s.publishEvent(event.ProfileEventTypeUnpublished, updated, usr)
	return updated, nil
}
