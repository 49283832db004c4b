package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/middleware"
	"github.com/justsurfingit/jobly/internal/models"
)

type AuthHandler struct {
	Users  UserService
	Tokens TokenIssuer
}

func NewAuthHandler(users UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

// Token is POST /auth/token: {username, password} => {token}.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dtos.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// Register is POST /auth/register. Self-registered users are never admins.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	user, err := h.Users.Register(c.Request.Context(), &dtos.UserCreationRequest{RegisterRequest: req})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.Tokens.Issue(*user)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(status, gin.H{"token": token})
}
