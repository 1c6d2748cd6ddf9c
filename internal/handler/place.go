package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/msomdec/placeshare/internal/service"
)

// maxCreateBody bounds a multipart create request: the image plus form fields.
const maxCreateBody = 1 << 20

// PlaceHandler handles place-related HTTP requests.
type PlaceHandler struct {
	places *service.PlaceService
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(places *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// HandleGet returns one place.
// GET /api/places/{placeId}
func (h *PlaceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.GetByID(r.Context(), pathID(r, "placeId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceDTO(place)})
}

// HandleListByUser returns every place created by a user.
// GET /api/places/user/{userId}
func (h *PlaceHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.ListByUser(r.Context(), pathID(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"places": toPlaceDTOs(places)})
}

// HandleCreate creates a place from a multipart form with title,
// description, address, and an image file.
// POST /api/places
func (h *PlaceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication failed!")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	if err := r.ParseMultipartForm(maxCreateBody); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data!")
		return
	}

	image, err := readImageUpload(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	place, err := h.places.Create(r.Context(), callerID, service.CreatePlaceInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
		Image:       image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"place": toPlaceDTO(place)})
}

// HandleUpdate changes the title and description of a place.
// PATCH /api/places/{placeId}
// Request: {"title":"...","description":"..."}
func (h *PlaceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication failed!")
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data!")
		return
	}

	place, err := h.places.Update(r.Context(), callerID, pathID(r, "placeId"), service.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceDTO(place)})
}

// HandleDelete removes a place.
// DELETE /api/places/{placeId}
func (h *PlaceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication failed!")
		return
	}

	if err := h.places.Delete(r.Context(), callerID, pathID(r, "placeId")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Place deleted successfully."})
}

// readImageUpload reads the "image" form file. A missing file yields nil so
// that input validation reports it together with the other fields.
func readImageUpload(r *http.Request) (*service.ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	// Detect content type from file bytes (more reliable than multipart header).
	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
