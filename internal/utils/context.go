package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/taskmaster-dev/taskmaster/internal/middleware"
	"github.com/taskmaster-dev/taskmaster/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.SessionUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.SessionUser{}, fmt.Errorf("user not resolved")
	}

	sessionUser, ok := user.(middleware.SessionUser)

	if !ok {
		return middleware.SessionUser{}, fmt.Errorf("invalid user type in context")
	}

	return sessionUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
