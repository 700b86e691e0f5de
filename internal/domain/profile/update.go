package profile

// UpdateProfile carries a field-level partial update. Nil means "leave the
// stored value alone"; a non-nil pointer to an empty slice clears the field.
type UpdateProfile struct {
	FirstName         *string                   `json:"firstName,omitempty"`
	LastName          *string                   `json:"lastName,omitempty"`
	ProfilePictureURL *string                   `json:"profilePictureUrl,omitempty"`
	JobTitle          *string                   `json:"jobTitle,omitempty"`
	Headline          *string                   `json:"headline,omitempty"`
	About             *string                   `json:"about,omitempty"`
	Email             *string                   `json:"email,omitempty"`
	Phone             *string                   `json:"phone,omitempty"`
	Website           *string                   `json:"website,omitempty"`
	Location          *string                   `json:"location,omitempty"`
	Languages         *[]string                 `json:"languages,omitempty"`
	Experiences       *[]Experience             `json:"experiences,omitempty"`
	Education         *[]Education              `json:"education,omitempty"`
	Skills            *[]string                 `json:"skills,omitempty"`
	Volunteering      *[]VolunteeringExperience `json:"volunteering,omitempty"`
	Projects          *[]Project                `json:"projects,omitempty"`
	PublishingOptions *PublishingOptions        `json:"publishingOptions,omitempty"`

	// ClearPublishingOptions unsets publishingOptions entirely; a nil
	// PublishingOptions alone is indistinguishable from "not provided".
	ClearPublishingOptions bool `json:"-"`
}

// IsEmpty reports whether no field is set at all.
func (u *UpdateProfile) IsEmpty() bool {
	if u == nil {
		return true
	}
	return u.FirstName == nil && u.LastName == nil && u.ProfilePictureURL == nil &&
		u.JobTitle == nil && u.Headline == nil && u.About == nil && u.Email == nil &&
		u.Phone == nil && u.Website == nil && u.Location == nil && u.Languages == nil &&
		u.Experiences == nil && u.Education == nil && u.Skills == nil &&
		u.Volunteering == nil && u.Projects == nil && u.PublishingOptions == nil &&
		!u.ClearPublishingOptions
}

// Apply merges the set fields into p. Used by the guest store, which persists
// whole records; the SQL store translates the same rules into a SET clause.
func (p *Profile) Apply(u *UpdateProfile) {
	if u == nil {
		return
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.ProfilePictureURL != nil {
		p.ProfilePictureURL = u.ProfilePictureURL
	}
	if u.JobTitle != nil {
		p.JobTitle = u.JobTitle
	}
	if u.Headline != nil {
		p.Headline = u.Headline
	}
	if u.About != nil {
		p.About = u.About
	}
	if u.Email != nil {
		p.Email = u.Email
	}
	if u.Phone != nil {
		p.Phone = u.Phone
	}
	if u.Website != nil {
		p.Website = u.Website
	}
	if u.Location != nil {
		p.Location = u.Location
	}
	if u.Languages != nil {
		p.Languages = *u.Languages
	}
	if u.Experiences != nil {
		p.Experiences = *u.Experiences
	}
	if u.Education != nil {
		p.Education = *u.Education
	}
	if u.Skills != nil {
		p.Skills = *u.Skills
	}
	if u.Volunteering != nil {
		p.Volunteering = *u.Volunteering
	}
	if u.Projects != nil {
		p.Projects = *u.Projects
	}
	if u.PublishingOptions != nil {
		opts := *u.PublishingOptions
		p.PublishingOptions = &opts
	}
	if u.ClearPublishingOptions {
		p.PublishingOptions = nil
	}
}
