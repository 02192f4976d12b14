package request

type CreateStaffRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	ManagesRooms bool    `json:"managesRooms"`
	ServiceID    *string `json:"serviceId,omitempty" validate:"omitempty,uuid"`
	IsAdmin      bool    `json:"isAdmin"`
}
