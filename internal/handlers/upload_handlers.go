package handlers

import (
	"net/http"

	"foodgo/internal/common"
	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
)

type UploadHandlers struct {
	uploadService services.UploadService
}

func NewUploadHandlers(uploadService services.UploadService) *UploadHandlers {
	return &UploadHandlers{uploadService: uploadService}
}

// UploadImage handles POST /api/upload with a multipart "file" field.
func (h *UploadHandlers) UploadImage(c echo.Context) error {
	if h.uploadService == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "uploads are not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.NewValidationError("file is required")
	}
	if fileHeader.Size > services.MaxUploadBytes {
		return common.NewValidationError("file exceeds %d bytes", services.MaxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.NewValidationError("cannot read uploaded file")
	}
	defer file.Close()

	url, err := h.uploadService.UploadImage(c.Request().Context(), file, fileHeader.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
