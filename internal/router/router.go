package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pindrop/internal/db"
	"pindrop/internal/handlers"
	"pindrop/internal/middleware"
	"pindrop/internal/services"
)

// Deps carries the external collaborators so routes can be wired with test
// doubles as easily as with the real providers.
type Deps struct {
	Verifier   services.TokenVerifier
	Geocoder   services.Geocoder
	Translator services.Translator
	Moderator  *services.Moderator
	PostZone   *time.Location
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Services
	userService := services.NewUserService(db.DB)
	commentService := services.NewCommentService(db.DB)
	pinService := services.NewPinService(db.DB)
	voteService := services.NewVoteService(db.DB)
	heatmapService := services.NewHeatmapService(db.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, commentService)
	commentHandler := handlers.NewCommentHandler(commentService, deps.Geocoder, deps.Translator, deps.Moderator, deps.PostZone)
	pinHandler := handlers.NewPinHandler(pinService, deps.Geocoder)
	voteHandler := handlers.NewVoteHandler(voteService)
	heatmapHandler := handlers.NewHeatmapHandler(heatmapService, deps.PostZone)

	authenticate := middleware.Authenticate(deps.Verifier, userService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	// Public Routes
	r.GET("/comments", commentHandler.List)
	r.GET("/comments/:id", commentHandler.Get)
	r.GET("/pins", pinHandler.List)
	r.GET("/pins/suggest", pinHandler.Suggest)
	r.GET("/heatmap", heatmapHandler.Get)
	r.GET("/users/:username", userHandler.Profile)
	r.GET("/users/:username/comments", userHandler.Comments)

	// Registration needs a verified token but no local account yet.
	r.POST("/auth/register", authenticate, authHandler.Register)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(authenticate, middleware.RequireRegistered())
	{
		authorized.POST("/comments", middleware.DailyPostLimit(deps.PostZone), commentHandler.Create)
		authorized.POST("/pins", pinHandler.Create)
		authorized.POST("/votes", voteHandler.Cast)
		authorized.DELETE("/votes/:commentId", voteHandler.Remove)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Not found"}})
	})
}
