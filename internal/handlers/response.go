package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// serverError logs a storage or internal failure and answers with a generic
// 500. The underlying detail is exposed only in development mode.
func serverError(ctx *gin.Context, development bool, msg string, err error) {
	log.Printf("%s: %v", msg, err)

	if development {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": msg, "detail": err.Error()})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// validationError answers 422 with the field-to-message map.
func validationError(ctx *gin.Context, fields map[string]string) {
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "Validation failed",
		"errors": fields,
	})
}
