package entity

import "github.com/google/uuid"

type RoomCategory struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Capacity    int     `db:"capacity"`
	NightlyRate Money   `db:"nightly_rate_cents"`
	ImagePath   *string `db:"image_path"`
	View        *string `db:"view"`
}

type Room struct {
	BaseNoDelete
	Number     string    `db:"number"`
	CategoryID uuid.UUID `db:"category_id"`
	State      RoomState `db:"state"`
}

type Service struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Price       *Money  `db:"price_cents"`
	Category    string  `db:"category"`
	ImagePath   *string `db:"image_path"`
}
