package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/repository"
	"github.com/taskmaster-dev/taskmaster/internal/types"
)

// SessionUser is the request-scoped identity every handler operates as.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// CurrentUser resolves the seeded single-user account into the request
// context. There is no authentication layer; every request runs as this
// user.
func CurrentUser(users *repository.UserRepository, username string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := users.FindByUsername(ctx.Request.Context(), username)

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Default user is not seeded"})
				return
			}
			log.Printf("Failed to resolve default user: %v", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		ctx.Set(types.ContextUserKey, SessionUser{
			ID:       user.ID,
			Username: user.Username,
		})
		ctx.Next()
	}
}
