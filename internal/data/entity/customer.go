package entity

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	Base
	UserID        uuid.UUID  `db:"user_id"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	Address       *string    `db:"address"`
	BirthDate     *time.Time `db:"birth_date"`
	PointsBalance int        `db:"points_balance"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
