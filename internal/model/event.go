package model

import "time"

// Event is the read model of a CMS-owned event. The reservation engine
// never writes events; it only reads price, capacity and the closed flag
// to make admission decisions.
type Event struct {
	ID                 int       `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	TitleEn            *string   `json:"title_en,omitempty" db:"title_en"`
	EventDate          time.Time `json:"event_date" db:"event_date"`
	EventTime          *string   `json:"event_time,omitempty" db:"event_time"`
	Price              int64     `json:"price" db:"price"` // minor currency units, 0 = free
	MaxSeats           *int      `json:"max_seats,omitempty" db:"max_seats"`
	RegistrationClosed bool      `json:"registration_closed" db:"registration_closed"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether reserving issues a ticket immediately, without
// a checkout session.
func (e *Event) IsFree() bool {
	return e.Price <= 0
}

// SeatsInfo is computed from ticket rows, never stored. AvailableSeats
// is nil when the event has unlimited capacity.
type SeatsInfo struct {
	MaxSeats       *int `json:"max_seats"`
	ReservedSeats  int  `json:"reserved_seats"`
	AvailableSeats *int `json:"available_seats"`
}

// HasRoomFor reports whether seats more can be admitted. Unlimited
// capacity always has room.
func (s SeatsInfo) HasRoomFor(seats int) bool {
	if s.AvailableSeats == nil {
		return true
	}
	return *s.AvailableSeats >= seats
}
