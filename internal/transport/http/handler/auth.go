package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledge-assist/internal/app"
	"knowledge-assist/internal/transport/http/response"
)

type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type tokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// Token exchanges the admin password for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "password is required")
		return
	}

	token, err := h.auth.IssueToken(req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredential) || errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, "invalid password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "issue token failed")
		return
	}

	response.OK(c, gin.H{"token": token, "token_type": "Bearer"})
}
