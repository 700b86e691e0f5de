package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Position is a single role held at a company. Dates are pointers because the
// upstream captions are free text and parsing is best effort.
type Position struct {
	Title       string     `json:"title"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	WorkSetting *string    `json:"workSetting,omitempty"`
}

type Experience struct {
	Company           string     `json:"company"`
	CompanyProfileURL *string    `json:"companyProfileUrl,omitempty"`
	CompanyLogoURL    *string    `json:"companyLogoUrl,omitempty"`
	Positions         []Position `json:"positions"`
}

type Education struct {
	School           string     `json:"school"`
	SchoolProfileURL *string    `json:"schoolProfileUrl,omitempty"`
	SchoolPictureURL *string    `json:"schoolPictureUrl,omitempty"`
	Degree           string     `json:"degree"`
	FieldOfStudy     *string    `json:"fieldOfStudy,omitempty"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	Grade            *string    `json:"grade,omitempty"`
	Activities       *string    `json:"activities,omitempty"`
	Description      *string    `json:"description,omitempty"`
}

type VolunteeringExperience struct {
	Role                   string     `json:"role"`
	Organization           string     `json:"organization"`
	OrganizationProfileURL *string    `json:"organizationProfileUrl,omitempty"`
	OrganizationLogoURL    *string    `json:"organizationLogoUrl,omitempty"`
	Cause                  *string    `json:"cause,omitempty"`
	StartDate              *time.Time `json:"startDate"`
	EndDate                *time.Time `json:"endDate,omitempty"`
	Description            *string    `json:"description,omitempty"`
}

type Project struct {
	Title          string     `json:"title"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Description    *string    `json:"description,omitempty"`
	URL            *string    `json:"url,omitempty"`
	AssociatedWith *string    `json:"associatedWith,omitempty"`
	Thumbnail      *string    `json:"thumbnail,omitempty"`
}

type PublishingOptions struct {
	Appearance string `json:"appearance"`
	TemplateID string `json:"templateId"`
	Slug       string `json:"slug"`
}

// Profile is the normalized record produced by the ingestion pipeline. The
// same shape backs both the owned collection and the time-expiring guest
// store; only the lifecycle differs.
type Profile struct {
	ID                uuid.UUID                `json:"id"`
	Username          string                   `json:"username"`
	FirstName         string                   `json:"firstName"`
	LastName          string                   `json:"lastName"`
	ProfilePictureURL *string                  `json:"profilePictureUrl,omitempty"`
	JobTitle          *string                  `json:"jobTitle,omitempty"`
	Headline          *string                  `json:"headline,omitempty"`
	About             *string                  `json:"about,omitempty"`
	Email             *string                  `json:"email,omitempty"`
	Phone             *string                  `json:"phone,omitempty"`
	Website           *string                  `json:"website,omitempty"`
	Location          *string                  `json:"location,omitempty"`
	Languages         []string                 `json:"languages"`
	Experiences       []Experience             `json:"experiences"`
	Education         []Education              `json:"education"`
	Skills            []string                 `json:"skills"`
	Volunteering      []VolunteeringExperience `json:"volunteering"`
	Projects          []Project                `json:"projects"`
	PublishingOptions *PublishingOptions       `json:"publishingOptions,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// Repository stores owned profiles. Lookups return (nil, nil) when no record
// matches; errors are reserved for real failures. Username and publish-slug
// uniqueness are enforced by the store, not here.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByOwnerIDsAndUsername(ctx context.Context, ownerIDs []uuid.UUID, username string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, id uuid.UUID, data *UpdateProfile) (*Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindPublished(ctx context.Context) ([]*Profile, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*Profile, error)
}

// GuestRepository stores anonymous profiles keyed by username. Records expire
// on their own; expiry is owned entirely by the backing store.
type GuestRepository interface {
	FindByUsername(ctx context.Context, username string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, username string, data *UpdateProfile) (*Profile, error)
	Delete(ctx context.Context, username string) error
}
