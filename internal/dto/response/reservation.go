package response

import (
	"hotel-booking/internal/data/entity"
)

const dateLayout = "2006-01-02"

type AvailabilityResponse struct {
	Available        bool     `json:"available"`
	Count            int      `json:"count"`
	AvailableRoomIDs []string `json:"availableRoomIds"`
	Message          string   `json:"message,omitempty"`
}

type RoomStayResponse struct {
	ID         string            `json:"id"`
	RoomID     string            `json:"roomId"`
	StartDate  string            `json:"startDate"`
	EndDate    string            `json:"endDate"`
	Status     entity.LineStatus `json:"status"`
	Price      entity.Money      `json:"price"`
	CustomerID *string           `json:"customerId,omitempty"`
	GuestName  *string           `json:"guestName,omitempty"`
	CartID     *string           `json:"cartId,omitempty"`
}

type ServiceBookingResponse struct {
	ID         string            `json:"id"`
	ServiceID  string            `json:"serviceId"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Status     entity.LineStatus `json:"status"`
	Price      entity.Money      `json:"price"`
	CustomerID *string           `json:"customerId,omitempty"`
	GuestName  *string           `json:"guestName,omitempty"`
	CartID     *string           `json:"cartId,omitempty"`
}

func RoomStayToResponse(s *entity.RoomStay) RoomStayResponse {
	return RoomStayResponse{
		ID:         s.ID.String(),
		RoomID:     s.RoomID.String(),
		StartDate:  s.StartDate.Format(dateLayout),
		EndDate:    s.EndDate.Format(dateLayout),
		Status:     s.Status,
		Price:      s.Price,
		CustomerID: uuidString(s.CustomerID),
		GuestName:  s.GuestName,
		CartID:     uuidString(s.CartID),
	}
}

func ServiceBookingToResponse(b *entity.ServiceBooking) ServiceBookingResponse {
	return ServiceBookingResponse{
		ID:         b.ID.String(),
		ServiceID:  b.ServiceID.String(),
		Date:       b.Date.Format(dateLayout),
		Time:       b.Time,
		Status:     b.Status,
		Price:      b.Price,
		CustomerID: uuidString(b.CustomerID),
		GuestName:  b.GuestName,
		CartID:     uuidString(b.CartID),
	}
}

func RoomStaysToResponse(stays []*entity.RoomStay) []RoomStayResponse {
	out := make([]RoomStayResponse, 0, len(stays))
	for _, s := range stays {
		out = append(out, RoomStayToResponse(s))
	}
	return out
}

func ServiceBookingsToResponse(bookings []*entity.ServiceBooking) []ServiceBookingResponse {
	out := make([]ServiceBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ServiceBookingToResponse(b))
	}
	return out
}
