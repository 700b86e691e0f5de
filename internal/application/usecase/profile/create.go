package profile

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/foliolab/folio-api/adapters/event"
	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// CreateProfile ingests a fresh profile from the upstream source. For an
// authenticated caller the record lands in the owned store and its media is
// relocated; for a guest the record lands in the time-expiring guest store
// with remote media URLs kept as-is. Guests must present a valid challenge
// token.
func (s *ProfileService) CreateProfile(ctx context.Context, link string, usr *user.User, turnstileToken, remoteIP string) (*profile.Profile, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProfileService.CreateProfile")
	defer span.End()

	username, err := s.ExtractUsername(link)
	if err != nil {
		return nil, err
	}

	if usr == nil {
		return s.createGuestProfile(ctx, username, turnstileToken, remoteIP)
	}

	existing, err := s.profiles.FindByOwnerIDsAndUsername(ctx, usr.ProfileIDs, username)
	if err != nil {
		return nil, apperror.WrapInternal("create profile", err)
	}
	if existing != nil {
		return nil, apperror.NewConflict("profile", "username", username)
	}

	raw, err := s.remote.FetchByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	p, err := s.transformer.Transform(ctx, raw, true, &usr.ID)
	if err != nil {
		return nil, transformFailure(err)
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, apperror.WrapInternal("create profile", err)
	}
	if err := s.users.AppendProfile(ctx, usr.ID, p.ID); err != nil {
		return nil, apperror.WrapInternal("append profile reference", err)
	}

	// Reload so the caller sees the stored representation, not the
	// in-memory aggregate.
	stored, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.WrapInternal("reload profile", err)
	}
	if stored == nil {
		stored = p
	}

	s.logger.Info("profile created",
		zap.String("username", username),
		zap.String("user_id", usr.ID.String()))
	s.publishEvent(event.ProfileEventTypeCreated, stored, usr)
	return stored, nil
}

// transformFailure keeps validation errors as-is and folds exhausted
// transform retries into the unavailable class.
func transformFailure(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewUnavailable("profile transformation failed", err)
}

func (s *ProfileService) createGuestProfile(ctx context.Context, username, turnstileToken, remoteIP string) (*profile.Profile, error) {
	if err := s.verifier.Verify(ctx, turnstileToken, remoteIP); err != nil {
		return nil, err
	}

	cached, err := s.guests.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.WrapInternal("guest lookup", err)
	}
	if cached != nil {
		s.logger.Info("guest profile served from cache", zap.String("username", username))
		return cached, nil
	}

	raw, err := s.remote.FetchByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	p, err := s.transformer.Transform(ctx, raw, false, nil)
	if err != nil {
		return nil, transformFailure(err)
	}

	if err := s.guests.Create(ctx, p); err != nil {
		return nil, apperror.WrapInternal("store guest profile", err)
	}

	s.logger.Info("guest profile created", zap.String("username", username))
	s.publishEvent(event.ProfileEventTypeCreated, p, nil)
	return p, nil
}
