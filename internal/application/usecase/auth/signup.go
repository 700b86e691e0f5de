package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/auth"
	"github.com/foliolab/folio-api/pkg/logger"
)

type SignupUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewSignupUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

type SignupOutput struct {
	AccessToken string
	User        *user.User
}

func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*SignupOutput, error) {

	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	existing, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.WrapInternal("signup", err)
	}
	if existing != nil {
		return nil, apperror.NewConflict("user", "email", input.Email)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		ProfileIDs:   []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		span.RecordError(err)
		return nil, apperror.WrapInternal("signup", err)
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	uc.logger.Info("user signed up", zap.String("user_id", u.ID.String()))
	return &SignupOutput{AccessToken: token, User: u}, nil
}
