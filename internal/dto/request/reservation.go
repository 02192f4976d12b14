package request

// AvailabilityRequest is read from the query string of check-availability.
type AvailabilityRequest struct {
	TypeID    string `json:"typeId" validate:"required,uuid"`
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
}

// UnavailableDatesRequest bounds are both inclusive.
type UnavailableDatesRequest struct {
	TypeID string `json:"typeId" validate:"required,uuid"`
	Start  string `json:"start" validate:"required,isodate"`
	End    string `json:"end" validate:"required,isodate"`
}

// BookRoomRequest is a direct customer booking, confirmed without the cart.
type BookRoomRequest struct {
	CategoryID string `json:"categoryId" validate:"required,uuid"`
	StartDate  string `json:"startDate" validate:"required,isodate"`
	EndDate    string `json:"endDate" validate:"required,isodate"`
}

// StaffBookRoomRequest needs either a registered customer or a guest name.
type StaffBookRoomRequest struct {
	BookRoomRequest
	CustomerID *string `json:"customerId,omitempty" validate:"omitempty,uuid"`
	GuestName  *string `json:"guestName,omitempty" validate:"omitempty,min=1,max=200"`
}

type ReserveServiceRequest struct {
	Date       string  `json:"date" validate:"required,isodate"`
	Time       string  `json:"time" validate:"required,datetime=15:04"`
	CustomerID *string `json:"customerId,omitempty" validate:"omitempty,uuid"`
	GuestName  *string `json:"guestName,omitempty" validate:"omitempty,min=1,max=200"`
}
