package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pindrop/internal/models"
	"pindrop/internal/services"
)

const (
	UserKey       = "user"
	SubjectUIDKey = "subject_uid"
)

// Authenticate verifies the bearer token and loads the matching local
// user. A valid token without a local user still passes (registration
// needs exactly that state); handlers that need a registered user stack
// RequireRegistered on top.
func Authenticate(verifier services.TokenVerifier, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, http.StatusUnauthorized, "No token provided")
			return
		}

		uid, err := verifier.Verify(c.Request.Context(), strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abortWith(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(SubjectUIDKey, uid)

		user, err := users.FindBySubject(c.Request.Context(), uid)
		if err != nil {
			abortWith(c, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if user != nil {
			c.Set(UserKey, user)
		}

		c.Next()
	}
}

// RequireRegistered rejects authenticated callers who never registered a
// local account.
func RequireRegistered() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserKey); !exists {
			abortWith(c, http.StatusUnauthorized, "User not registered")
			return
		}
		c.Next()
	}
}

// DailyPostLimit enforces the one-comment-per-calendar-day gate. The day
// boundary is evaluated in loc, not server-local time.
func DailyPostLimit(loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}

		if user.LastPostDate != nil {
			// last_post_date is a bare calendar date; only today is
			// evaluated in loc.
			today := time.Now().In(loc).Format("2006-01-02")
			if user.LastPostDate.Format("2006-01-02") == today {
				abortWith(c, http.StatusTooManyRequests, "You can only post one comment per day")
				return
			}
		}
		c.Next()
	}
}

// CurrentUser returns the registered user set by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(UserKey); exists {
		return v.(*models.User)
	}
	return nil
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": message}})
}
