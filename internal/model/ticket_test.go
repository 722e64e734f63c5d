package model_test

import (
	"testing"

	"event-reservations/internal/model"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestTicketStatus_Active(t *testing.T) {
	assert.True(t, model.TicketStatusPending.Active())
	assert.True(t, model.TicketStatusConfirmed.Active())
	assert.True(t, model.TicketStatusAttended.Active())
	assert.False(t, model.TicketStatusCancelled.Active())
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    model.TicketStatus
		to      model.TicketStatus
		allowed bool
	}{
		{"pending to confirmed", model.TicketStatusPending, model.TicketStatusConfirmed, true},
		{"pending to cancelled", model.TicketStatusPending, model.TicketStatusCancelled, true},
		{"pending to attended", model.TicketStatusPending, model.TicketStatusAttended, true},
		{"confirmed to attended", model.TicketStatusConfirmed, model.TicketStatusAttended, true},
		{"confirmed to cancelled", model.TicketStatusConfirmed, model.TicketStatusCancelled, true},
		{"attended to confirmed", model.TicketStatusAttended, model.TicketStatusConfirmed, true},
		{"attended to cancelled", model.TicketStatusAttended, model.TicketStatusCancelled, true},
		{"cancelled to confirmed", model.TicketStatusCancelled, model.TicketStatusConfirmed, true},
		{"cancelled to attended", model.TicketStatusCancelled, model.TicketStatusAttended, true},
		{"cancelled to pending", model.TicketStatusCancelled, model.TicketStatusPending, false},
		{"confirmed to pending", model.TicketStatusConfirmed, model.TicketStatusPending, false},
		{"same status is a no-op", model.TicketStatusAttended, model.TicketStatusAttended, true},
		{"unknown target", model.TicketStatusConfirmed, model.TicketStatus("bogus"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestReserveRequest_Validate(t *testing.T) {
	valid := model.ReserveRequest{
		HolderName:  "Dana Levi",
		HolderEmail: "dana@example.com",
		Seats:       2,
	}
	assert.True(t, valid.Validate())

	t.Run("seat count out of range", func(t *testing.T) {
		req := valid
		req.Seats = 0
		assert.False(t, req.Validate())
		req.Seats = 5
		assert.False(t, req.Validate())
		req.Seats = 4
		assert.True(t, req.Validate())
	})

	t.Run("blank name", func(t *testing.T) {
		req := valid
		req.HolderName = "   "
		assert.False(t, req.Validate())
	})

	t.Run("email shape", func(t *testing.T) {
		req := valid
		req.HolderEmail = "not-an-email"
		assert.False(t, req.Validate())
		req.HolderEmail = "a@b"
		assert.False(t, req.Validate())
		req.HolderEmail = "a@b.co"
		assert.True(t, req.Validate())
	})

	t.Run("phone charset", func(t *testing.T) {
		req := valid
		req.HolderPhone = strPtr("+972 (54) 123-4567")
		assert.True(t, req.Validate())
		req.HolderPhone = strPtr("call me maybe")
		assert.False(t, req.Validate())
		req.HolderPhone = strPtr("")
		assert.True(t, req.Validate())
	})
}

func TestTicketFilter_Matches(t *testing.T) {
	ticket := &model.Ticket{
		HolderName:  "Yael Cohen",
		HolderEmail: "yael.cohen@example.com",
		HolderPhone: strPtr("052-1234567"),
		Status:      model.TicketStatusConfirmed,
	}

	assert.True(t, model.TicketFilter{}.Matches(ticket))
	assert.True(t, model.TicketFilter{Search: "YAEL"}.Matches(ticket))
	assert.True(t, model.TicketFilter{Search: "cohen@example"}.Matches(ticket))
	assert.True(t, model.TicketFilter{Search: "1234"}.Matches(ticket))
	assert.False(t, model.TicketFilter{Search: "nobody"}.Matches(ticket))
	assert.True(t, model.TicketFilter{Status: model.TicketStatusConfirmed}.Matches(ticket))
	assert.False(t, model.TicketFilter{Status: model.TicketStatusCancelled}.Matches(ticket))
	assert.False(t, model.TicketFilter{Search: "yael", Status: model.TicketStatusPending}.Matches(ticket))
}

func TestSeatsInfo_HasRoomFor(t *testing.T) {
	maxSeats := 10
	available := 3
	limited := model.SeatsInfo{MaxSeats: &maxSeats, ReservedSeats: 7, AvailableSeats: &available}
	assert.True(t, limited.HasRoomFor(3))
	assert.False(t, limited.HasRoomFor(4))

	unlimited := model.SeatsInfo{ReservedSeats: 7}
	assert.True(t, unlimited.HasRoomFor(1000))
}
