package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pindrop/internal/apperr"
)

// Error renders any error as the structured JSON envelope. Unknown errors
// become opaque 500s in release mode; outside it the underlying message is
// exposed to ease debugging.
func Error(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if gin.Mode() == gin.ReleaseMode {
			message = "Internal Server Error"
		}
	}
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}
