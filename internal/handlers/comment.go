package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"pindrop/internal/apperr"
	"pindrop/internal/middleware"
	"pindrop/internal/services"
)

type CommentHandler struct {
	comments   *services.CommentService
	geocoder   services.Geocoder
	translator services.Translator
	moderator  *services.Moderator
	postZone   *time.Location
}

func NewCommentHandler(comments *services.CommentService, geocoder services.Geocoder, translator services.Translator, moderator *services.Moderator, postZone *time.Location) *CommentHandler {
	return &CommentHandler{
		comments:   comments,
		geocoder:   geocoder,
		translator: translator,
		moderator:  moderator,
		postZone:   postZone,
	}
}

// List - GET /comments?country&city&pin_id&sort&date&page&limit&lang
func (h *CommentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, pagination, err := h.comments.List(
		c.Request.Context(),
		c.Query("pin_id"),
		c.Query("city"),
		c.Query("country"),
		c.Query("date"),
		c.DefaultQuery("sort", "top"),
		page, limit,
	)
	if err != nil {
		Error(c, err)
		return
	}
	if rows == nil {
		rows = []services.CommentView{}
	}

	if lang := c.Query("lang"); lang != "" {
		for i := range rows {
			rows[i].DisplayContent = services.Localize(
				c.Request.Context(), h.translator, rows[i].Content, rows[i].TranslatedContent, lang)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   rows,
		"pagination": pagination,
	})
}

// Get - GET /comments/:id?lang
func (h *CommentHandler) Get(c *gin.Context) {
	row, err := h.comments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	if lang := c.Query("lang"); lang != "" {
		row.DisplayContent = services.Localize(
			c.Request.Context(), h.translator, row.Content, row.TranslatedContent, lang)
	}

	c.JSON(http.StatusOK, gin.H{"comment": row})
}

type newPinBody struct {
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	GooglePlaceID *string `json:"googlePlaceId"`
}

type createCommentBody struct {
	Content string      `json:"content"`
	Country string      `json:"country"`
	City    *string     `json:"city"`
	PinID   *string     `json:"pinId"`
	NewPin  *newPinBody `json:"newPin"`
}

// Create - POST /comments (authenticated, registered, daily-gated)
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var body createCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, apperr.BadRequest("Content is required"))
		return
	}

	content := strings.TrimSpace(h.moderator.Strip(body.Content))
	if n := utf8.RuneCountInString(content); n < 1 || n > 1000 {
		Error(c, apperr.BadRequest("Content must be between 1 and 1000 characters"))
		return
	}
	if !h.moderator.Check(content).IsClean {
		Error(c, apperr.Forbidden("Comment contains inappropriate content"))
		return
	}

	in := services.NewComment{
		Content: content,
		Country: strings.TrimSpace(body.Country),
		City:    body.City,
		PinID:   body.PinID,
	}

	if body.NewPin != nil && body.NewPin.Name != "" && body.NewPin.Lat != 0 && body.NewPin.Lng != 0 {
		city, country, err := h.geocoder.ReverseGeocode(c.Request.Context(), body.NewPin.Lat, body.NewPin.Lng)
		if err != nil || country == "" {
			Error(c, apperr.BadRequest("Could not determine location country"))
			return
		}

		np := services.NewPin{
			Name:          strings.TrimSpace(body.NewPin.Name),
			Lat:           body.NewPin.Lat,
			Lng:           body.NewPin.Lng,
			GooglePlaceID: body.NewPin.GooglePlaceID,
			Country:       country,
		}
		if city != "" {
			np.City = &city
		}
		in.NewPin = &np
	}

	comment, err := h.comments.Create(c.Request.Context(), user.ID, in, time.Now().In(h.postZone))
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": gin.H{
		"id":         comment.ID,
		"content":    comment.Content,
		"country":    comment.Country,
		"city":       comment.City,
		"likes":      comment.Likes,
		"dislikes":   comment.Dislikes,
		"created_at": comment.CreatedAt,
	}})
}
