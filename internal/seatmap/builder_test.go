package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

func findSeat(t *testing.T, seats []model.Seat, name string) model.Seat {
	t.Helper()
	for _, s := range seats {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("seat %s not in grid", name)
	return model.Seat{}
}

func TestBuild_EmptyInputYieldsFullPlaceholderGrid(t *testing.T) {
	seats := Build(nil)

	require.Len(t, seats, 160)
	assert.Equal(t, "seat_A1", seats[0].ID)
	assert.Equal(t, "seat_J16", seats[159].ID)
	assert.Equal(t, "B", seats[16].Row)
	assert.Equal(t, 1, seats[16].Column)

	ids := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		ids[s.ID] = struct{}{}
		assert.Equal(t, model.SeatAvailable, s.Status)
	}
	assert.Len(t, ids, 160)
}

func TestBuild_CenterBlockIsVIP(t *testing.T) {
	seats := Build(nil)

	vip := findSeat(t, seats, "C3")
	assert.Equal(t, model.SeatVIP, vip.Type)
	assert.Equal(t, VIPPrice, vip.Price)

	assert.Equal(t, model.SeatVIP, findSeat(t, seats, "H14").Type)

	for _, name := range []string{"B3", "I3", "C2", "C15", "A1"} {
		s := findSeat(t, seats, name)
		assert.Equal(t, model.SeatNormal, s.Type, name)
		assert.Equal(t, NormalPrice, s.Price, name)
	}
}

func TestBuild_UsesRawRecordsByPosition(t *testing.T) {
	raw := []model.RawSeat{
		{ID: "48001", Name: "01", Type: model.SeatNormal, Price: 80000},
		{ID: "48002", Name: "02", Type: model.SeatVIP, Booked: true, Price: 80000},
		{},
	}
	seats := Build(raw)

	require.Len(t, seats, 160)
	assert.Equal(t, "48001", seats[0].ID)
	assert.Equal(t, "01", seats[0].Name)
	assert.Equal(t, 80000, seats[0].Price)
	assert.Equal(t, model.SeatAvailable, seats[0].Status)

	assert.Equal(t, "48002", seats[1].ID)
	assert.Equal(t, model.SeatVIP, seats[1].Type)
	assert.Equal(t, VIPPrice, seats[1].Price)
	assert.Equal(t, model.SeatBooked, seats[1].Status)

	assert.Equal(t, "seat_A3", seats[2].ID)
}

func TestBuild_RawWithoutTypeFallsBackToBlockRule(t *testing.T) {
	raw := make([]model.RawSeat, 40)
	raw[34] = model.RawSeat{ID: "c3", Price: 70000} // C3
	seats := Build(raw)

	assert.Equal(t, model.SeatVIP, seats[34].Type)
	assert.Equal(t, VIPPrice, seats[34].Price)
}

func TestBuild_DemoOverlayIsOptIn(t *testing.T) {
	plain := Build(nil)
	assert.Equal(t, model.SeatAvailable, findSeat(t, plain, "D3").Status)
	assert.Equal(t, model.SeatAvailable, findSeat(t, plain, "I12").Status)

	demo := NewBuilder(WithDemoOverlay()).Build(nil)
	for _, name := range []string{"D3", "D4", "D5", "J15"} {
		assert.Equal(t, model.SeatBooked, findSeat(t, demo, name).Status, name)
	}
	for _, name := range []string{"I12", "I13"} {
		assert.Equal(t, model.SeatSelecting, findSeat(t, demo, name).Status, name)
	}
}
