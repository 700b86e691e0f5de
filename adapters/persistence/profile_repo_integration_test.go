package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

type ProfileRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	profileRepo profile.Repository
	userRepo    user.Repository
}

func (s *ProfileRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.profileRepo = NewPostgresProfileRepo(s.dbPool, logger.NewNop())
	s.userRepo = NewPostgresUserRepo(s.dbPool)
}

func (s *ProfileRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestProfileRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(ProfileRepoIntegrationTestSuite))
}

func (s *ProfileRepoIntegrationTestSuite) newProfile(username string) *profile.Profile {
	now := time.Now().UTC()
	headline := "Engineer"
	return &profile.Profile{
		ID:        uuid.New(),
		Username:  username,
		FirstName: "Jane",
		LastName:  "Doe",
		Headline:  &headline,
		Languages: []string{"English"},
		Skills:    []string{"Go"},
		Experiences: []profile.Experience{{
			Company: "Acme Corp.",
			Positions: []profile.Position{{
				Title: "Engineer",
			}},
		}},
		Education:    []profile.Education{},
		Volunteering: []profile.VolunteeringExperience{},
		Projects:     []profile.Project{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *ProfileRepoIntegrationTestSuite) Test_Create_And_FindByUsername() {
	ctx := context.Background()

	p := s.newProfile("create-find")
	s.NoError(s.profileRepo.Create(ctx, p))

	found, err := s.profileRepo.FindByUsername(ctx, "create-find")
	s.NoError(err)
	s.Require().NotNil(found)
	s.Equal(p.ID, found.ID)
	s.Equal("Jane", found.FirstName)
	s.Require().Len(found.Experiences, 1)
	s.Equal("Acme Corp.", found.Experiences[0].Company)
	s.Require().Len(found.Experiences[0].Positions, 1)

	missing, err := s.profileRepo.FindByUsername(ctx, "nobody")
	s.NoError(err)
	s.Nil(missing)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Create_DuplicateUsername() {
	ctx := context.Background()

	s.NoError(s.profileRepo.Create(ctx, s.newProfile("dupe")))
	err := s.profileRepo.Create(ctx, s.newProfile("dupe"))
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *ProfileRepoIntegrationTestSuite) Test_FindByOwnerIDsAndUsername() {
	ctx := context.Background()

	p := s.newProfile("owned-lookup")
	s.NoError(s.profileRepo.Create(ctx, p))

	found, err := s.profileRepo.FindByOwnerIDsAndUsername(ctx, []uuid.UUID{p.ID, uuid.New()}, "owned-lookup")
	s.NoError(err)
	s.Require().NotNil(found)
	s.Equal(p.ID, found.ID)

	notOwned, err := s.profileRepo.FindByOwnerIDsAndUsername(ctx, []uuid.UUID{uuid.New()}, "owned-lookup")
	s.NoError(err)
	s.Nil(notOwned)

	emptySet, err := s.profileRepo.FindByOwnerIDsAndUsername(ctx, nil, "owned-lookup")
	s.NoError(err)
	s.Nil(emptySet)
}

func (s *ProfileRepoIntegrationTestSuite) Test_PartialUpdate() {
	ctx := context.Background()

	p := s.newProfile("partial-update")
	s.NoError(s.profileRepo.Create(ctx, p))

	about := "New about"
	skills := []string{"Go", "SQL"}
	updated, err := s.profileRepo.Update(ctx, p.ID, &profile.UpdateProfile{
		About:  &about,
		Skills: &skills,
	})
	s.NoError(err)
	s.Require().NotNil(updated)
	s.Require().NotNil(updated.About)
	s.Equal("New about", *updated.About)
	s.Equal([]string{"Go", "SQL"}, updated.Skills)
	s.Equal("Jane", updated.FirstName, "untouched fields survive")
	s.Require().NotNil(updated.Headline)
	s.Equal("Engineer", *updated.Headline)
}

func (s *ProfileRepoIntegrationTestSuite) Test_PartialUpdate_NilSliceReadsEmpty() {
	ctx := context.Background()

	p := s.newProfile("nil-slice-update")
	s.NoError(s.profileRepo.Create(ctx, p))

	// A partial update can carry a pointer to a nil slice; the stored
	// column must still read back as an empty collection, not null.
	var nilSkills []string
	updated, err := s.profileRepo.Update(ctx, p.ID, &profile.UpdateProfile{
		Skills: &nilSkills,
	})
	s.NoError(err)
	s.Require().NotNil(updated)
	s.NotNil(updated.Skills)
	s.Empty(updated.Skills)

	reread, err := s.profileRepo.FindByID(ctx, p.ID)
	s.NoError(err)
	s.Require().NotNil(reread)
	s.NotNil(reread.Skills)
	s.Empty(reread.Skills)
	s.Equal([]string{"English"}, reread.Languages, "untouched collection survives")
}

func (s *ProfileRepoIntegrationTestSuite) Test_Publish_SlugUniqueness() {
	ctx := context.Background()

	first := s.newProfile("slug-first")
	second := s.newProfile("slug-second")
	s.NoError(s.profileRepo.Create(ctx, first))
	s.NoError(s.profileRepo.Create(ctx, second))

	opts := profile.PublishingOptions{Appearance: "light", TemplateID: "minimal", Slug: "taken-slug"}
	_, err := s.profileRepo.Update(ctx, first.ID, &profile.UpdateProfile{PublishingOptions: &opts})
	s.NoError(err)

	_, err = s.profileRepo.Update(ctx, second.ID, &profile.UpdateProfile{PublishingOptions: &opts})
	s.ErrorIs(err, apperror.ErrConflict)

	found, err := s.profileRepo.FindPublishedBySlug(ctx, "taken-slug")
	s.NoError(err)
	s.Require().NotNil(found)
	s.Equal(first.ID, found.ID)

	// Clearing the options frees the slug.
	_, err = s.profileRepo.Update(ctx, first.ID, &profile.UpdateProfile{ClearPublishingOptions: true})
	s.NoError(err)
	_, err = s.profileRepo.Update(ctx, second.ID, &profile.UpdateProfile{PublishingOptions: &opts})
	s.NoError(err)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Delete() {
	ctx := context.Background()

	p := s.newProfile("to-delete")
	s.NoError(s.profileRepo.Create(ctx, p))
	s.NoError(s.profileRepo.Delete(ctx, p.ID))

	found, err := s.profileRepo.FindByUsername(ctx, "to-delete")
	s.NoError(err)
	s.Nil(found)

	s.ErrorIs(s.profileRepo.Delete(ctx, p.ID), apperror.ErrNotFound)
}

func (s *ProfileRepoIntegrationTestSuite) Test_User_AppendProfile() {
	ctx := context.Background()

	u := &user.User{
		ID:           uuid.New(),
		Email:        "append@example.com",
		PasswordHash: "hashedpassword",
		ProfileIDs:   []uuid.UUID{},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s.NoError(s.userRepo.Create(ctx, u))

	profileID := uuid.New()
	s.NoError(s.userRepo.AppendProfile(ctx, u.ID, profileID))
	s.NoError(s.userRepo.AppendProfile(ctx, u.ID, profileID), "append is idempotent")

	found, err := s.userRepo.FindByID(ctx, u.ID)
	s.NoError(err)
	s.Require().NotNil(found)
	s.Equal([]uuid.UUID{profileID}, found.ProfileIDs)
}

func (s *ProfileRepoIntegrationTestSuite) Test_User_ClearProfiles() {
	ctx := context.Background()

	u := &user.User{
		ID:           uuid.New(),
		Email:        "clear@example.com",
		PasswordHash: "hashedpassword",
		ProfileIDs:   []uuid.UUID{},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s.NoError(s.userRepo.Create(ctx, u))
	s.NoError(s.userRepo.AppendProfile(ctx, u.ID, uuid.New()))
	s.NoError(s.userRepo.AppendProfile(ctx, u.ID, uuid.New()))

	s.NoError(s.userRepo.ClearProfiles(ctx, u.ID))

	found, err := s.userRepo.FindByID(ctx, u.ID)
	s.NoError(err)
	s.Require().NotNil(found)
	s.Empty(found.ProfileIDs)

	s.ErrorIs(s.userRepo.ClearProfiles(ctx, uuid.New()), apperror.ErrNotFound)
}
