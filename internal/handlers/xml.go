package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
	"github.com/taskmaster-dev/taskmaster/internal/xmlbridge"
)

const xmlContentType = "application/xml; charset=utf-8"

type XMLHandler struct {
	bridge      *xmlbridge.Bridge
	xmlPath     string
	development bool
}

func NewXMLHandler(bridge *xmlbridge.Bridge, cfg config.Config) *XMLHandler {
	return &XMLHandler{
		bridge:      bridge,
		xmlPath:     cfg.XMLPath,
		development: cfg.Development(),
	}
}

// Export answers with the XML document; ?download=1 serves it as an
// attachment instead.
func (h *XMLHandler) Export(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	data, err := h.bridge.Export(ctx.Request.Context(), userID)

	if err != nil {
		serverError(ctx, h.development, "Failed to export tasks", err)
		return
	}

	if ctx.Query("download") == "1" {
		filename := fmt.Sprintf("taskmaster_export_%s.xml", time.Now().Format("2006-01-02_150405"))
		ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	}

	ctx.Data(http.StatusOK, xmlContentType, data)
}

// Import reads XML from an uploaded "xml_file" form field or from the raw
// request body and imports it transactionally.
func (h *XMLHandler) Import(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	data, err := importPayload(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if len(data) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No XML content provided"})
		return
	}

	result, err := h.bridge.Import(ctx.Request.Context(), userID, data)

	if err != nil {
		var parseErr *xmlbridge.ParseError
		if errors.As(err, &parseErr) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		} else {
			serverError(ctx, h.development, "Failed to import tasks", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Import complete: %d tasks imported, %d skipped", result.Imported, result.Skipped),
		"result":  result,
	})
}

// Save exports the current tasks to the server-side XML file.
func (h *XMLHandler) Save(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	if err := h.bridge.SaveToFile(ctx.Request.Context(), userID, h.xmlPath); err != nil {
		serverError(ctx, h.development, "Failed to save XML file", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Tasks saved to XML file", "file": h.xmlPath})
}

// Load imports tasks from the server-side XML file.
func (h *XMLHandler) Load(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	result, err := h.bridge.LoadFromFile(ctx.Request.Context(), userID, h.xmlPath)

	if err != nil {
		h.fileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Loaded %d tasks from XML file", result.Imported),
		"result":  result,
	})
}

// Parse returns the server-side XML file as JSON without touching the
// store.
func (h *XMLHandler) Parse(ctx *gin.Context) {
	doc, err := xmlbridge.ParseFile(h.xmlPath)

	if err != nil {
		h.fileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"document": doc})
}

func (h *XMLHandler) fileError(ctx *gin.Context, err error) {
	var parseErr *xmlbridge.ParseError
	switch {
	case os.IsNotExist(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "XML file not found"})
	case errors.As(err, &parseErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
	default:
		serverError(ctx, h.development, "Failed to process XML file", err)
	}
}

func importPayload(ctx *gin.Context) ([]byte, error) {
	file, err := ctx.FormFile("xml_file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return ctx.GetRawData()
}
