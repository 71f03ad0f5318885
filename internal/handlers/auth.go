package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"pindrop/internal/apperr"
	"pindrop/internal/middleware"
	"pindrop/internal/services"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register creates the local account for a verified identity token.
func (h *AuthHandler) Register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, apperr.BadRequest("Username is required"))
		return
	}

	username := strings.TrimSpace(body.Username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 30 {
		Error(c, apperr.BadRequest("Username must be between 3 and 30 characters"))
		return
	}
	if !usernamePattern.MatchString(username) {
		Error(c, apperr.BadRequest("Username can only contain letters, numbers, and underscores"))
		return
	}

	uid := c.GetString(middleware.SubjectUIDKey)
	user, err := h.users.Register(c.Request.Context(), uid, username)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	}})
}
