package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/middleware"
)

type UserHandler struct {
	Users        UserService
	Applications ApplicationService
	Tokens       TokenIssuer
}

func NewUserHandler(users UserService, applications ApplicationService, tokens TokenIssuer) *UserHandler {
	return &UserHandler{
		Users:        users,
		Applications: applications,
		Tokens:       tokens,
	}
}

// Create is POST /users. Unlike registration it may create admins, and it
// returns a token for the new user.
func (h *UserHandler) Create(c *gin.Context) {
	var req dtos.UserCreationRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	user, err := h.Users.Register(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	token, err := h.Tokens.Issue(*user)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.FindAll(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dtos.UserUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	user, err := h.Users.Update(c.Request.Context(), c.Param("username"), req.UpdateSpec())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if err := h.Users.Remove(c.Request.Context(), username); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// Apply is POST /users/:username/jobs/:id.
func (h *UserHandler) Apply(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	app, err := h.Applications.Apply(c.Request.Context(), c.Param("username"), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"applied": app.JobID})
}
