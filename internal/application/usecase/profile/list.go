package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// GetPublishedProfiles lists every profile with publishing options set.
func (s *ProfileService) GetPublishedProfiles(ctx context.Context) ([]*profile.Profile, error) {
	profiles, err := s.profiles.FindPublished(ctx)
	if err != nil {
		return nil, apperror.WrapInternal("list published profiles", err)
	}
	return profiles, nil
}

// GetPublishedProfile reads one published profile by its slug.
func (s *ProfileService) GetPublishedProfile(ctx context.Context, slug string) (*profile.Profile, error) {
	if slug == "" {
		return nil, apperror.NewInvalidInput("publish slug is empty", nil)
	}
	p, err := s.profiles.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, apperror.WrapInternal("get published profile", err)
	}
	if p == nil {
		return nil, apperror.NewNotFound("published profile", slug)
	}
	return p, nil
}

// GetUserProfiles resolves the caller's ownership set. A reference whose
// profile row is gone is skipped, not an error.
func (s *ProfileService) GetUserProfiles(ctx context.Context, usr *user.User) ([]*profile.Profile, error) {
	if usr == nil {
		return nil, apperror.NewUnauthorized("authentication required", nil)
	}

	out := make([]*profile.Profile, 0, len(usr.ProfileIDs))
	for _, id := range usr.ProfileIDs {
		p, err := s.profiles.FindByID(ctx, id)
		if err != nil {
			return nil, apperror.WrapInternal("list user profiles", err)
		}
		if p == nil {
			s.logger.Warn("dangling profile reference",
				zap.String("profile_id", id.String()),
				zap.String("user_id", usr.ID.String()))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
