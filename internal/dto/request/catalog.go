package request

import "hotel-booking/internal/data/entity"

type CreateCategoryRequest struct {
	Name        string       `json:"name" validate:"required,max=100"`
	Description *string      `json:"description,omitempty"`
	Capacity    int          `json:"capacity" validate:"required,min=1"`
	NightlyRate entity.Money `json:"nightlyRate" validate:"gte=0"`
	ImagePath   *string      `json:"imagePath,omitempty"`
	View        *string      `json:"view,omitempty" validate:"omitempty,max=100"`
}

type CreateRoomRequest struct {
	Number     string `json:"number" validate:"required,max=20"`
	CategoryID string `json:"categoryId" validate:"required,uuid"`
}

// CreateServiceRequest leaves Price empty for a free service.
type CreateServiceRequest struct {
	Name        string        `json:"name" validate:"required,max=100"`
	Description *string       `json:"description,omitempty"`
	Price       *entity.Money `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    string        `json:"category" validate:"required,max=50"`
	ImagePath   *string       `json:"imagePath,omitempty"`
}
