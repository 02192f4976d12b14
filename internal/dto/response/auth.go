package response

import (
	"time"

	"hotel-booking/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	IsAdmin   bool            `json:"is_admin"`
}

// MeResponse describes the caller. Customer is set for customer accounts only.
type MeResponse struct {
	UserID       string            `json:"user_id"`
	Email        string            `json:"email"`
	Role         entity.UserRole   `json:"role"`
	IsAdmin      bool              `json:"is_admin"`
	ManagesRooms bool              `json:"manages_rooms"`
	ServiceID    *string           `json:"service_id,omitempty"`
	Customer     *CustomerResponse `json:"customer,omitempty"`
}

type StaffResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"is_admin"`
	ManagesRooms bool      `json:"manages_rooms"`
	ServiceID    *string   `json:"service_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Role:    user.Role,
		IsAdmin: user.IsAdmin,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}

func MeToResponse(user *entity.User, customer *entity.Customer) MeResponse {
	resp := MeResponse{
		UserID:       user.ID.String(),
		Email:        user.Email,
		Role:         user.Role,
		IsAdmin:      user.IsAdmin,
		ManagesRooms: user.ManagesRooms,
		ServiceID:    uuidString(user.ServiceID),
	}
	if customer != nil {
		c := CustomerToResponse(customer)
		resp.Customer = &c
	}
	return resp
}

func StaffToResponse(user *entity.User) StaffResponse {
	return StaffResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		ManagesRooms: user.ManagesRooms,
		ServiceID:    uuidString(user.ServiceID),
		CreatedAt:    user.CreatedAt,
	}
}
