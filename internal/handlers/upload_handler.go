package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"

	"github.com/konvff/taxi-api/internal/helpers"
	"github.com/konvff/taxi-api/internal/models"
)

// UploadImage accepts a multipart "image" file, stages it on disk and
// pushes it to cloudinary, returning the hosted URL.
func UploadImage(cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image file is required"))
			return
		}

		tmpPath := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, tmpPath); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to stage uploaded file"))
			return
		}
		defer os.Remove(tmpPath)

		url, err := helpers.UploadImage(c.Request.Context(), cld, tmpPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"url": url}, "Image uploaded successfully"))
	}
}
