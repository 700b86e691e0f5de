package profile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foliolab/folio-api/adapters/event"
	"github.com/foliolab/folio-api/internal/application/service"
	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

const tracerName = "folio-api/profile-service"

// Service is the profile lifecycle facade the HTTP layer talks to. A nil
// *user.User on any method means the caller is an anonymous guest.
type Service interface {
	ExtractUsername(link string) (string, error)
	CreateProfile(ctx context.Context, link string, usr *user.User, turnstileToken, remoteIP string) (*profile.Profile, error)
	GetProfile(ctx context.Context, link string, usr *user.User) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, link string, data *profile.UpdateProfile, usr *user.User) (*profile.Profile, error)
	DeleteProfile(ctx context.Context, link string, usr *user.User) error
	DeleteUserProfiles(ctx context.Context, usr *user.User) error
	PublishProfile(ctx context.Context, link string, opts profile.PublishingOptions, usr *user.User) (*profile.Profile, error)
	UnpublishProfile(ctx context.Context, link string, usr *user.User) (*profile.Profile, error)
	TransferGuestProfileToUser(ctx context.Context, link string, usr *user.User) (*profile.Profile, error)
	GetPublishedProfiles(ctx context.Context) ([]*profile.Profile, error)
	GetPublishedProfile(ctx context.Context, slug string) (*profile.Profile, error)
	GetUserProfiles(ctx context.Context, usr *user.User) ([]*profile.Profile, error)
}

type ProfileService struct {
	profiles     profile.Repository
	guests       profile.GuestRepository
	users        user.Repository
	remote       service.RemoteSource
	transformer  service.Transformer
	relocator    service.Relocator
	verifier     service.TokenVerifier
	mediaDomains []string
	events       *event.KafkaProducerClient
	logger       logger.Logger
}

var _ Service = (*ProfileService)(nil)

func NewProfileService(
	profiles profile.Repository,
	guests profile.GuestRepository,
	users user.Repository,
	remote service.RemoteSource,
	transformer service.Transformer,
	relocator service.Relocator,
	verifier service.TokenVerifier,
	mediaDomains []string,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:     profiles,
		guests:       guests,
		users:        users,
		remote:       remote,
		transformer:  transformer,
		relocator:    relocator,
		verifier:     verifier,
		mediaDomains: mediaDomains,
		events:       events,
		logger:       log,
	}
}

// resolveOwned maps a username onto the caller's ownership set. A profile
// owned by somebody else is a permission error, not a not-found, so callers
// cannot probe which usernames exist only by status code alone.
func (s *ProfileService) resolveOwned(ctx context.Context, usr *user.User, username string) (*profile.Profile, error) {
	owned, err := s.profiles.FindByOwnerIDsAndUsername(ctx, usr.ProfileIDs, username)
	if err != nil {
		return nil, apperror.WrapInternal("resolve profile", err)
	}
	if owned != nil {
		return owned, nil
	}

	other, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.WrapInternal("resolve profile", err)
	}
	if other != nil {
		return nil, apperror.NewPermissionDenied(fmt.Sprintf("profile '%s' belongs to another user", username))
	}
	return nil, apperror.NewNotFound("profile", username)
}

func (s *ProfileService) storagePrefix(usr *user.User, username string) string {
	return fmt.Sprintf("%s/%s", usr.ID, username)
}

// publishEvent emits a lifecycle event without blocking the request path.
func (s *ProfileService) publishEvent(eventType string, p *profile.Profile, usr *user.User) {
	if s.events == nil {
		return
	}
	payload := event.ProfileEventPayload{
		EventType: eventType,
		ProfileID: p.ID,
		Username:  p.Username,
		Guest:     usr == nil,
	}
	if usr != nil {
		id := usr.ID
		payload.UserID = &id
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.PublishProfileEvent(ctx, payload); err != nil {
			s.logger.Warn("profile event publish failed",
				zap.String("event_type", eventType),
				zap.String("username", p.Username),
				zap.Error(err))
		}
	}()
}
