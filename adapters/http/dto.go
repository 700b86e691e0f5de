package http

import (
	"github.com/foliolab/folio-api/internal/domain/profile"
)

type CreateProfileRequest struct {
	Link           string `json:"link" binding:"required"`
	TurnstileToken string `json:"turnstileToken"`
}

type PublishProfileRequest struct {
	Appearance string `json:"appearance"`
	TemplateID string `json:"templateId"`
	Slug       string `json:"slug" binding:"required"`
}

func (r *PublishProfileRequest) ToPublishingOptions() profile.PublishingOptions {
	return profile.PublishingOptions{
		Appearance: r.Appearance,
		TemplateID: r.TemplateID,
		Slug:       r.Slug,
	}
}

type SignupRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
