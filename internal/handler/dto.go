package handler

import (
	"strconv"

	"github.com/msomdec/placeshare/internal/domain"
	"github.com/msomdec/placeshare/internal/service"
)

// LocationDTO is the JSON representation of a coordinate pair.
type LocationDTO struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// PlaceDTO is the JSON representation of a place. IDs are rendered as text.
type PlaceDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	Location    LocationDTO `json:"location"`
	Image       string      `json:"image"`
	Creator     string      `json:"creator"`
}

func toPlaceDTO(p *domain.Place) PlaceDTO {
	return PlaceDTO{
		ID:          formatID(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    LocationDTO{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.Image,
		Creator:     formatID(p.CreatorID),
	}
}

func toPlaceDTOs(places []domain.Place) []PlaceDTO {
	dtos := make([]PlaceDTO, len(places))
	for i := range places {
		dtos[i] = toPlaceDTO(&places[i])
	}
	return dtos
}

// UserDTO is the JSON representation of a user. The password hash is never exposed.
type UserDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Places []string `json:"places"`
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		places := make([]string, len(u.Places))
		for j, id := range u.Places {
			places[j] = formatID(id)
		}
		dtos[i] = UserDTO{ID: formatID(u.ID), Name: u.Name, Email: u.Email, Places: places}
	}
	return dtos
}

// SessionDTO is returned by signup and login.
type SessionDTO struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func toSessionDTO(s *service.Session) SessionDTO {
	return SessionDTO{UserID: formatID(s.UserID), Email: s.Email, Token: s.Token}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
