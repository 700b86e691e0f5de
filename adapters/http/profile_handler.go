package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/foliolab/folio-api/internal/application/usecase/profile"
	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

type ProfileHandler struct {
	profileService profileUC.Service
	logger         logger.Logger
}

func NewProfileHandler(svc profileUC.Service, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: svc,
		logger:         log,
	}
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile creation", err))
		return
	}

	p, err := h.profileService.CreateProfile(c.Request.Context(), req.Link, CurrentUser(c), req.TurnstileToken, c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.profileService.GetProfile(c.Request.Context(), c.Param("username"), CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req profile.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	p, err := h.profileService.UpdateProfile(c.Request.Context(), c.Param("username"), &req, CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.profileService.DeleteProfile(c.Request.Context(), c.Param("username"), CurrentUser(c)); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) DeleteUserProfiles(c *gin.Context) {
	if err := h.profileService.DeleteUserProfiles(c.Request.Context(), CurrentUser(c)); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) PublishProfile(c *gin.Context) {
	var req PublishProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile publish", err))
		return
	}

	p, err := h.profileService.PublishProfile(c.Request.Context(), c.Param("username"), req.ToPublishingOptions(), CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) UnpublishProfile(c *gin.Context) {
	p, err := h.profileService.UnpublishProfile(c.Request.Context(), c.Param("username"), CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) TransferProfile(c *gin.Context) {
	p, err := h.profileService.TransferGuestProfileToUser(c.Request.Context(), c.Param("username"), CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) ListPublishedProfiles(c *gin.Context) {
	profiles, err := h.profileService.GetPublishedProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) GetPublishedProfile(c *gin.Context) {
	p, err := h.profileService.GetPublishedProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) ListUserProfiles(c *gin.Context) {
	profiles, err := h.profileService.GetUserProfiles(c.Request.Context(), CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}
