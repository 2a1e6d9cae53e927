package handlers

import (
	"net/http"

	"elbasta-backend/firebase"
	"elbasta-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadHandler struct {
	Storage firebase.StorageClient
	Logger  *zap.Logger
}

// Upload stores an admin image (multipart field "file", optional "folder")
// and returns its public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxUploadSize+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	folder := c.PostForm("folder")
	url, err := h.Storage.UploadImage(c.Request.Context(), folder, file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		loggerOrNop(h.Logger).Error("image upload failed", zap.String("folder", folder), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
