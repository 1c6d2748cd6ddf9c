package handler

import (
	"net/http"

	"github.com/msomdec/placeshare/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	userService *service.UserService,
	placeService *service.PlaceService,
	imageService *service.ImageService,
) {
	places := NewPlaceHandler(placeService)
	users := NewUserHandler(auth, userService)
	images := NewImageHandler(imageService)

	protect := func(h http.HandlerFunc) http.Handler { return RequireAuth(auth, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("GET /api/places/{placeId}", places.HandleGet)
	mux.HandleFunc("GET /api/places/user/{userId}", places.HandleListByUser)
	mux.Handle("POST /api/places", protect(places.HandleCreate))
	mux.Handle("PATCH /api/places/{placeId}", protect(places.HandleUpdate))
	mux.Handle("DELETE /api/places/{placeId}", protect(places.HandleDelete))

	mux.HandleFunc("GET /api/users", users.HandleList)
	mux.HandleFunc("POST /api/users/signup", users.HandleSignup)
	mux.HandleFunc("POST /api/users/login", users.HandleLogin)

	mux.HandleFunc("GET /uploads/images/{name}", images.HandleServe)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Could not find this route.")
	})
}
