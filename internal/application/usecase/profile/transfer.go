package profile

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/foliolab/folio-api/adapters/event"
	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/internal/ingest"
	"github.com/foliolab/folio-api/pkg/apperror"
)

// TransferGuestProfileToUser moves a guest record into the caller's owned
// collection. Media is re-homed under {userID}/{username} first; references
// whose migration fails keep their original value. If the caller already owns
// a profile under the same username the guest record is simply discarded and
// the owned one returned.
func (s *ProfileService) TransferGuestProfileToUser(ctx context.Context, link string, usr *user.User) (*profile.Profile, error) {
	if usr == nil {
		return nil, apperror.NewUnauthorized("authentication required", nil)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProfileService.TransferGuestProfileToUser")
	defer span.End()

	username, err := s.ExtractUsername(link)
	if err != nil {
		return nil, err
	}

	guest, err := s.guests.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.WrapInternal("guest lookup", err)
	}
	if guest == nil {
		return nil, apperror.NewNotFound("guest profile", username)
	}

	existing, err := s.profiles.FindByOwnerIDsAndUsername(ctx, usr.ProfileIDs, username)
	if err != nil {
		return nil, apperror.WrapInternal("transfer profile", err)
	}
	if existing != nil {
		if err := s.guests.Delete(ctx, username); err != nil {
			s.logger.Warn("guest record cleanup failed, record will expire on its own",
				zap.String("username", username), zap.Error(err))
		}
		return existing, nil
	}

	p := *guest
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	prefix := s.storagePrefix(usr, username)
	migrated := 0
	for _, ref := range p.MediaRefs() {
		old := *ref
		if old == "" {
			continue
		}
		// Guest records carry remote URLs verbatim, so the same host gate
		// the transform applies holds here: an off-list URL is never
		// downloaded, the reference just stays remote.
		if strings.HasPrefix(old, "http") && !ingest.AllowedMediaHost(s.mediaDomains, old) {
			s.logger.Warn("skipping media from unrecognized host",
				zap.String("source", old))
			continue
		}
		newPath, err := s.relocator.Relocate(ctx, old, prefix, migrationFilename(old))
		if err != nil {
			s.logger.Warn("media migration failed, keeping original reference",
				zap.String("source", old), zap.Error(err))
			continue
		}
		*ref = newPath
		migrated++
	}
	s.logger.Info("guest media migrated",
		zap.String("username", username), zap.Int("migrated", migrated))

	if err := s.profiles.Create(ctx, &p); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// A concurrent transfer won the username. Serve whatever the
			// caller owns now; anything else really is a conflict.
			owned, rerr := s.profiles.FindByOwnerIDsAndUsername(ctx, usr.ProfileIDs, username)
			if rerr == nil && owned != nil {
				return owned, nil
			}
		}
		return nil, apperror.WrapInternal("transfer profile", err)
	}
	if err := s.users.AppendProfile(ctx, usr.ID, p.ID); err != nil {
		return nil, apperror.WrapInternal("append profile reference", err)
	}

	if err := s.guests.Delete(ctx, username); err != nil {
		s.logger.Warn("guest record cleanup failed, record will expire on its own",
			zap.String("username", username), zap.Error(err))
	}

	s.logger.Info("guest profile transferred",
		zap.String("username", username),
		zap.String("user_id", usr.ID.String()))
	s.publishEvent(event.ProfileEventTypeTransferred, &p, usr)
	return &p, nil
}

// migrationFilename derives a stable storage name from a source reference so
// a replayed transfer overwrites instead of duplicating.
func migrationFilename(ref string) string {
	trimmed := ref
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	base := path.Base(trimmed)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return "media"
	}
	return strings.ToLower(base)
}
