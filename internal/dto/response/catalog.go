package response

import (
	"hotel-booking/internal/data/entity"
)

type CategoryResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Capacity    int          `json:"capacity"`
	NightlyRate entity.Money `json:"nightlyRate"`
	ImagePath   *string      `json:"imagePath,omitempty"`
	View        *string      `json:"view,omitempty"`
	RoomCount   int          `json:"roomCount"`
}

type RoomResponse struct {
	ID         string           `json:"id"`
	Number     string           `json:"number"`
	CategoryID string           `json:"categoryId"`
	State      entity.RoomState `json:"state"`
}

type ServiceResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Price       entity.Money `json:"price"`
	Free        bool         `json:"free"`
	Category    string       `json:"category"`
	ImagePath   *string      `json:"imagePath,omitempty"`
}

func CategoryToResponse(c *entity.RoomCategory, roomCount int) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Capacity:    c.Capacity,
		NightlyRate: c.NightlyRate,
		ImagePath:   c.ImagePath,
		View:        c.View,
		RoomCount:   roomCount,
	}
}

func RoomToResponse(r *entity.Room) RoomResponse {
	return RoomResponse{
		ID:         r.ID.String(),
		Number:     r.Number,
		CategoryID: r.CategoryID.String(),
		State:      r.State,
	}
}

func ServiceToResponse(s *entity.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		ImagePath:   s.ImagePath,
	}
	if s.Price != nil {
		resp.Price = *s.Price
	}
	resp.Free = resp.Price == 0
	return resp
}
