package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/placeshare/internal/service"
)

// ImageHandler serves uploaded images.
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// HandleServe serves image bytes with a sniffed Content-Type.
// GET /uploads/images/{name}
func (h *ImageHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	data, err := h.images.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
