package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/post"
	"github.com/postboard/postboard/internal/storage"
	"github.com/postboard/postboard/pkg/logger"
)

// Uploader stores an image body and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (post.Image, error)
}

var errImageMissing = apperr.New(apperr.KindValidation, "Image file is required")

type ImageHandler struct {
	up Uploader
}

func NewImageHandler(up Uploader) *ImageHandler {
	return &ImageHandler{up: up}
}

func (h *ImageHandler) Register(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.POST("/images", gate, h.Upload)
}

// Upload accepts a multipart "image" field. The returned id and url are what
// clients send back as imgid/imgurl when creating a post.
func (h *ImageHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, errImageMissing)
		return
	}
	if fh.Size > storage.MaxImageSize {
		writeError(c, storage.ErrTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, apperr.Wrap(apperr.KindValidation, "Image file is unreadable", err))
		return
	}
	defer f.Close()

	img, err := h.up.Upload(c.Request.Context(), f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		if apperr.KindOf(err) != apperr.KindValidation {
			logger.Errorf("image upload failed: %v", err)
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}
