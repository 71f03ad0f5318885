package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pindrop/internal/services"
)

type HeatmapHandler struct {
	heatmap  *services.HeatmapService
	postZone *time.Location
}

func NewHeatmapHandler(heatmap *services.HeatmapService, postZone *time.Location) *HeatmapHandler {
	return &HeatmapHandler{heatmap: heatmap, postZone: postZone}
}

// Get - GET /heatmap?minLat&maxLat&minLng&maxLng&date
func (h *HeatmapHandler) Get(c *gin.Context) {
	var bounds *services.Bounds
	minLat, e1 := strconv.ParseFloat(c.Query("minLat"), 64)
	maxLat, e2 := strconv.ParseFloat(c.Query("maxLat"), 64)
	minLng, e3 := strconv.ParseFloat(c.Query("minLng"), 64)
	maxLng, e4 := strconv.ParseFloat(c.Query("maxLng"), 64)
	if e1 == nil && e2 == nil && e3 == nil && e4 == nil {
		bounds = &services.Bounds{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
	}

	result, err := h.heatmap.Generate(c.Request.Context(), c.Query("date"), bounds, h.postZone)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
