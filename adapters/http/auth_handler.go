package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foliolab/folio-api/internal/application/usecase/auth"
	"github.com/foliolab/folio-api/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase  *auth.LoginUseCase
	signupUseCase *auth.SignupUseCase
}

func NewAuthHandler(loginUC *auth.LoginUseCase, signupUC *auth.SignupUseCase) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUC,
		signupUseCase: signupUC,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for login", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for signup", err))
		return
	}

	output, err := h.signupUseCase.Execute(c.Request.Context(), auth.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": output.AccessToken,
		"user":         output.User,
	})
}
