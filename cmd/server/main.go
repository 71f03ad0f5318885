package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pindrop/internal/db"
	"pindrop/internal/router"
	"pindrop/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// The calendar-day boundary for the post gate and heatmap default day.
	postZone := time.UTC
	if tz := os.Getenv("POST_LIMIT_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("Invalid POST_LIMIT_TZ %q: %v", tz, err)
		}
		postZone = loc
	}

	// Identity provider; without credentials the API still serves reads.
	var verifier services.TokenVerifier
	fv, err := services.NewFirebaseVerifier(context.Background())
	if err != nil {
		log.Printf("Firebase credentials not configured, auth endpoints will reject all tokens: %v", err)
		verifier = services.DisabledVerifier{}
	} else {
		verifier = fv
	}

	// Initialize Gin
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	router.RegisterRoutes(r, router.Deps{
		Verifier:   verifier,
		Geocoder:   services.NewGoogleGeocoder(),
		Translator: services.NewMyMemoryTranslator(),
		Moderator:  services.NewModerator(),
		PostZone:   postZone,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("pindrop server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
