package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-client/internal/logging"
	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

func receipt(ticket, seat string) model.Receipt {
	return model.Receipt{TicketID: ticket, SeatID: seat, MovieTitle: "Dune", BookedAt: "2024-03-01"}
}

func TestParseSeatName(t *testing.T) {
	cases := []struct {
		in  string
		row string
		col int
		ok  bool
	}{
		{"A1", "A", 1, true},
		{"C12", "C", 12, true},
		{"1", "A", 1, true},
		{"16", "A", 16, true},
		{"17", "B", 1, true},
		{"160", "J", 16, true},
		{"0", "", 0, false},
		{"vip-1", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		row, col, ok := ParseSeatName(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.row, row, tc.in)
		assert.Equal(t, tc.col, col, tc.in)
	}
}

func TestMerge_DedupesAndDropsIncomplete(t *testing.T) {
	local := []model.Receipt{
		receipt("1", "48001"),
		{TicketID: "2", SeatID: "48002", BookedAt: "2024-03-01"}, // no title
	}
	remote := []model.Receipt{
		receipt("1", "48001"), // duplicate of the local one
		receipt("1", "48003"),
		receipt("Unknown", "48004"),
		{TicketID: "3", SeatID: "48005", MovieTitle: "Dune"}, // no date
	}
	got := Merge(local, remote)
	require.Len(t, got, 2)
	assert.Equal(t, "48001", got[0].SeatID)
	assert.Equal(t, "48003", got[1].SeatID)
}

func TestMerge_FillsSeatPositions(t *testing.T) {
	r := receipt("9", "48001")
	r.Seats = []model.ReceiptSeat{
		{SeatID: "48001", Name: "17"},
		{SeatID: "48002", Name: "C7"},
		{SeatID: "48003", Name: "?"},
		{SeatID: "48004", Name: "5", Row: "J", Column: 3},
	}
	got := Merge(nil, []model.Receipt{r})
	require.Len(t, got, 1)
	seats := got[0].Seats
	assert.Equal(t, "B", seats[0].Row)
	assert.Equal(t, 1, seats[0].Column)
	assert.Equal(t, "C", seats[1].Row)
	assert.Equal(t, 7, seats[1].Column)
	assert.Equal(t, "A", seats[2].Row)
	assert.Equal(t, 1, seats[2].Column)
	assert.Equal(t, "J", seats[3].Row)
	assert.Equal(t, 3, seats[3].Column)
	// The input is not modified.
	assert.Empty(t, r.Seats[0].Row)
}

type fakeAccounts struct {
	acc model.Account
	err error
}

func (f fakeAccounts) Account(ctx context.Context, token string) (model.Account, error) {
	return f.acc, f.err
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, storage.AppendReceipt(ctx, store, receipt("1", "48001")))

	svc := NewService(fakeAccounts{acc: model.Account{Bookings: []model.Receipt{receipt("1", "48001"), receipt("2", "48010")}}}, logging.Discard())
	list, err := svc.List(ctx, store, "tok")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.List(ctx, store, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	boom := errors.New("boom")
	svc = NewService(fakeAccounts{err: boom}, logging.Discard())
	list, err = svc.List(ctx, store, "tok")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, list, 1)
}
