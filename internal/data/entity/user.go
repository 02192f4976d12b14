package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
)

type User struct {
	Base
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	Role         UserRole   `db:"role"`
	IsAdmin      bool       `db:"is_admin"`
	ManagesRooms bool       `db:"manages_rooms"`
	ServiceID    *uuid.UUID `db:"service_id"`
	IsActive     bool       `db:"is_active"`
}

// Access returns the user's capability set.
func (u *User) Access() Access {
	return Access{
		UserID:       u.ID,
		Role:         u.Role,
		IsAdmin:      u.IsAdmin,
		ManagesRooms: u.ManagesRooms,
		ServiceID:    u.ServiceID,
	}
}

// Access is what a caller may do. Admin implies every staff capability.
type Access struct {
	UserID       uuid.UUID
	Role         UserRole
	IsAdmin      bool
	ManagesRooms bool
	ServiceID    *uuid.UUID
}

func (a Access) IsCustomer() bool {
	return a.Role == RoleCustomer
}

func (a Access) IsStaff() bool {
	return a.Role == RoleStaff
}

// CanManageRooms covers staff booking, listing and completing room stays.
func (a Access) CanManageRooms() bool {
	return a.IsStaff() && (a.IsAdmin || a.ManagesRooms)
}

// CanManageService is true for admins and for staff scoped to serviceID.
func (a Access) CanManageService(serviceID uuid.UUID) bool {
	if !a.IsStaff() {
		return false
	}
	if a.IsAdmin {
		return true
	}
	return a.ServiceID != nil && *a.ServiceID == serviceID
}

// CanBookForGuests lets staff enter bookings on behalf of someone else.
func (a Access) CanBookForGuests() bool {
	return a.IsStaff()
}

func (a Access) CanAdminister() bool {
	return a.IsStaff() && a.IsAdmin
}
