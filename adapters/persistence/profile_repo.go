package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, log logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: log}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const profileColumns = `
	id, username, first_name, last_name, profile_picture_url,
	job_title, headline, about, email, phone, website, location,
	languages, experiences, education, skills, volunteering, projects,
	publishing_options, created_at, updated_at
`

// jsonEnc batches jsonb marshaling, remembering the first failure.
type jsonEnc struct{ err error }

func (e *jsonEnc) marshal(v any) []byte {
	if e.err != nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		e.err = err
	}
	return b
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var languages, experiences, education, skills, volunteering, projects, publishing []byte

	err := row.Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.ProfilePictureURL,
		&p.JobTitle, &p.Headline, &p.About, &p.Email, &p.Phone, &p.Website, &p.Location,
		&languages, &experiences, &education, &skills, &volunteering, &projects,
		&publishing,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Languages = unmarshalOr(languages, []string{})
	p.Experiences = unmarshalOr(experiences, []profile.Experience{})
	p.Education = unmarshalOr(education, []profile.Education{})
	p.Skills = unmarshalOr(skills, []string{})
	p.Volunteering = unmarshalOr(volunteering, []profile.VolunteeringExperience{})
	p.Projects = unmarshalOr(projects, []profile.Project{})
	if len(publishing) > 0 {
		var opts profile.PublishingOptions
		if err := json.Unmarshal(publishing, &opts); err == nil {
			p.PublishingOptions = &opts
		}
	}
	return p, nil
}

// unmarshalOr decodes a jsonb column, falling back on empty input, a JSON
// null (stored when a partial update carried a nil slice) or a decode error.
func unmarshalOr[T any](data []byte, fallback T) T {
	if len(data) == 0 || string(data) == "null" {
		return fallback
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return fallback
	}
	return out
}

func (r *postgresProfileRepo) findOne(ctx context.Context, query string, args ...any) (*profile.Profile, error) {
	row := r.db.QueryRow(ctx, query, args...)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	return r.findOne(ctx, query, username)
}

func (r *postgresProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresProfileRepo) FindByOwnerIDsAndUsername(ctx context.Context, ownerIDs []uuid.UUID, username string) (*profile.Profile, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1 AND id = ANY($2)`
	return r.findOne(ctx, query, username, ownerIDs)
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	enc := &jsonEnc{}
	var publishing []byte
	var publishSlug *string
	if p.PublishingOptions != nil {
		publishing = enc.marshal(p.PublishingOptions)
		publishSlug = &p.PublishingOptions.Slug
	}

	query := `
		INSERT INTO profiles (
			id, username, first_name, last_name, profile_picture_url,
			job_title, headline, about, email, phone, website, location,
			languages, experiences, education, skills, volunteering, projects,
			publishing_options, publish_slug, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	languages := enc.marshal(p.Languages)
	experiences := enc.marshal(p.Experiences)
	education := enc.marshal(p.Education)
	skills := enc.marshal(p.Skills)
	volunteering := enc.marshal(p.Volunteering)
	projects := enc.marshal(p.Projects)
	if enc.err != nil {
		return fmt.Errorf("failed to marshal profile: %w", enc.err)
	}

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.ProfilePictureURL,
		p.JobTitle, p.Headline, p.About, p.Email, p.Phone, p.Website, p.Location,
		languages, experiences, education, skills, volunteering, projects,
		publishing, publishSlug, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("profile", "username", p.Username)
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Update translates the partial update into a SET clause. Only provided
// fields appear; updated_at always moves.
func (r *postgresProfileRepo) Update(ctx context.Context, id uuid.UUID, data *profile.UpdateProfile) (*profile.Profile, error) {
	builder := psql.Update("profiles").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	enc := &jsonEnc{}
	if data.FirstName != nil {
		builder = builder.Set("first_name", *data.FirstName)
	}
	if data.LastName != nil {
		builder = builder.Set("last_name", *data.LastName)
	}
	if data.ProfilePictureURL != nil {
		builder = builder.Set("profile_picture_url", data.ProfilePictureURL)
	}
	if data.JobTitle != nil {
		builder = builder.Set("job_title", data.JobTitle)
	}
	if data.Headline != nil {
		builder = builder.Set("headline", data.Headline)
	}
	if data.About != nil {
		builder = builder.Set("about", data.About)
	}
	if data.Email != nil {
		builder = builder.Set("email", data.Email)
	}
	if data.Phone != nil {
		builder = builder.Set("phone", data.Phone)
	}
	if data.Website != nil {
		builder = builder.Set("website", data.Website)
	}
	if data.Location != nil {
		builder = builder.Set("location", data.Location)
	}
	if data.Languages != nil {
		builder = builder.Set("languages", enc.marshal(*data.Languages))
	}
	if data.Experiences != nil {
		builder = builder.Set("experiences", enc.marshal(*data.Experiences))
	}
	if data.Education != nil {
		builder = builder.Set("education", enc.marshal(*data.Education))
	}
	if data.Skills != nil {
		builder = builder.Set("skills", enc.marshal(*data.Skills))
	}
	if data.Volunteering != nil {
		builder = builder.Set("volunteering", enc.marshal(*data.Volunteering))
	}
	if data.Projects != nil {
		builder = builder.Set("projects", enc.marshal(*data.Projects))
	}
	if data.PublishingOptions != nil {
		builder = builder.
			Set("publishing_options", enc.marshal(data.PublishingOptions)).
			Set("publish_slug", data.PublishingOptions.Slug)
	}
	if data.ClearPublishingOptions {
		builder = builder.
			Set("publishing_options", nil).
			Set("publish_slug", nil)
	}
	if enc.err != nil {
		return nil, fmt.Errorf("failed to marshal profile update: %w", enc.err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile update: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			slug := ""
			if data.PublishingOptions != nil {
				slug = data.PublishingOptions.Slug
			}
			return nil, apperror.NewConflict("profile", "slug", slug)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("profile", id.String())
	}

	return r.FindByID(ctx, id)
}

func (r *postgresProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", id.String())
	}
	return nil
}

func (r *postgresProfileRepo) FindPublished(ctx context.Context) ([]*profile.Profile, error) {
	builder := psql.Select(profileColumns).
		From("profiles").
		Where("publishing_options IS NOT NULL").
		OrderBy("updated_at DESC")

	query, args, _ := builder.ToSql()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query published profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) FindPublishedBySlug(ctx context.Context, slug string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE publish_slug = $1`
	return r.findOne(ctx, query, slug)
}
