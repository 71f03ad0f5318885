package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pindrop/internal/apperr"
	"pindrop/internal/middleware"
	"pindrop/internal/services"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Cast - POST /votes {commentId, voteType}
func (h *VoteHandler) Cast(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var body struct {
		CommentID string `json:"commentId"`
		VoteType  int    `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.CommentID == "" {
		Error(c, apperr.BadRequest("commentId is required"))
		return
	}

	outcome, err := h.votes.Cast(c.Request.Context(), user.ID, body.CommentID, body.VoteType)
	if err != nil {
		Error(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"message":  outcome.Message,
		"voteType": outcome.VoteType,
	})
}

// Remove - DELETE /votes/:commentId
func (h *VoteHandler) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.votes.Remove(c.Request.Context(), user.ID, c.Param("commentId")); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote removed"})
}
