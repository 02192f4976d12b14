package response

import (
	"hotel-booking/internal/data/entity"

	"github.com/google/uuid"
)

type CustomerResponse struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Address       *string `json:"address,omitempty"`
	BirthDate     *string `json:"birthDate,omitempty"`
	PointsBalance int     `json:"pointsBalance"`
}

func CustomerToResponse(c *entity.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:            c.ID.String(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Address:       c.Address,
		PointsBalance: c.PointsBalance,
	}
	if c.BirthDate != nil {
		d := c.BirthDate.Format(dateLayout)
		resp.BirthDate = &d
	}
	return resp
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
