package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"pindrop/internal/apperr"
	"pindrop/internal/middleware"
	"pindrop/internal/services"
)

type PinHandler struct {
	pins     *services.PinService
	geocoder services.Geocoder
}

func NewPinHandler(pins *services.PinService, geocoder services.Geocoder) *PinHandler {
	return &PinHandler{pins: pins, geocoder: geocoder}
}

// List - GET /pins?lat&lng&radius (proximity search, nearest first)
func (h *PinHandler) List(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		Error(c, apperr.BadRequest("lat and lng are required"))
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "1000"), 64)

	pins, err := h.pins.Search(c.Request.Context(), lat, lng, radius)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pins": pins})
}

// Suggest - GET /pins/suggest?lat&lng
func (h *PinHandler) Suggest(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		Error(c, apperr.BadRequest("lat and lng are required"))
		return
	}

	places, err := h.geocoder.NearbyPlaces(c.Request.Context(), lat, lng)
	if err != nil {
		// Suggestion outages degrade to an empty list, never a failure.
		log.Printf("Place suggestions unavailable: %v", err)
		places = []services.Place{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": places})
}

type createPinBody struct {
	Name          string   `json:"name"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	GooglePlaceID *string  `json:"googlePlaceId"`
}

// Create - POST /pins (explicit creation: a nearby duplicate is a Conflict)
func (h *PinHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var body createPinBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" || body.Lat == nil || body.Lng == nil {
		Error(c, apperr.BadRequest("name, lat, and lng are required"))
		return
	}

	name := strings.TrimSpace(body.Name)
	if n := utf8.RuneCountInString(name); n < 1 || n > 200 {
		Error(c, apperr.BadRequest("Pin name must be between 1 and 200 characters"))
		return
	}

	city, country, err := h.geocoder.ReverseGeocode(c.Request.Context(), *body.Lat, *body.Lng)
	if err != nil || country == "" {
		Error(c, apperr.BadRequest("Could not determine location country"))
		return
	}
	var cityPtr *string
	if city != "" {
		cityPtr = &city
	}

	pin, err := h.pins.Create(c.Request.Context(), user.ID, name, *body.Lat, *body.Lng, body.GooglePlaceID, cityPtr, country)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pin": gin.H{
		"id":         pin.ID,
		"name":       pin.Name,
		"city":       pin.City,
		"country":    pin.Country,
		"created_at": pin.CreatedAt,
	}})
}
