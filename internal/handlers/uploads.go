package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/romanbrito/onlineStorePrisma/internal/service"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type uploadResponse struct {
	Image      string `json:"image"`
	LargeImage string `json:"largeImage"`
}

// UploadItemImage stores a multipart "file" and answers with the URLs to pass
// to createItem.
func (h HandlerSet) UploadItemImage(c *gin.Context) {
	caller := session.FromContext(c.Request.Context())

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Storage.MaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file_too_large"})
		return
	}

	images, err := h.images.Upload(c.Request.Context(), caller, service.UploadImageInput{
		File:         file,
		DeclaredType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error().Err(err).Str("user_id", caller.UserID).Msg("upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, uploadResponse{
		Image:      images.Image,
		LargeImage: images.LargeImage,
	})
}
