package response

import (
	"hotel-booking/internal/data/entity"
)

type CartResponse struct {
	ID        string                   `json:"id"`
	Status    entity.CartStatus        `json:"status"`
	Total     entity.Money             `json:"total"`
	RoomStays []RoomStayResponse       `json:"roomStays"`
	Services  []ServiceBookingResponse `json:"services"`
}

type CartTotalResponse struct {
	Total entity.Money `json:"total"`
}

// Receipt is the outcome of a settled cart.
type Receipt struct {
	CartID        string       `json:"cartId"`
	Subtotal      entity.Money `json:"subtotal"`
	PointsUsed    int          `json:"pointsUsed"`
	AmountPaid    entity.Money `json:"amountPaid"`
	PointsEarned  int          `json:"pointsEarned"`
	PointsBalance int          `json:"pointsBalance"`
	Message       string       `json:"message"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

func CartToResponse(cart *entity.Cart) CartResponse {
	return CartResponse{
		ID:        cart.ID.String(),
		Status:    cart.Status,
		Total:     cart.Total,
		RoomStays: RoomStaysToResponse(cart.RoomStays),
		Services:  ServiceBookingsToResponse(cart.Services),
	}
}
