package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pindrop/internal/services"
)

type UserHandler struct {
	users    *services.UserService
	comments *services.CommentService
}

func NewUserHandler(users *services.UserService, comments *services.CommentService) *UserHandler {
	return &UserHandler{users: users, comments: comments}
}

// Profile - GET /users/:username (case-insensitive lookup)
func (h *UserHandler) Profile(c *gin.Context) {
	user, commentCount, err := h.users.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"username":     user.Username,
		"createdAt":    user.CreatedAt,
		"commentCount": commentCount,
	}})
}

// Comments - GET /users/:username/comments?sort&page&limit
func (h *UserHandler) Comments(c *gin.Context) {
	user, _, err := h.users.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		Error(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sort := c.DefaultQuery("sort", "newest")

	rows, pagination, err := h.comments.ListByUser(c.Request.Context(), user.ID, sort, page, limit)
	if err != nil {
		Error(c, err)
		return
	}
	if rows == nil {
		rows = []services.CommentView{}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   rows,
		"pagination": pagination,
	})
}
