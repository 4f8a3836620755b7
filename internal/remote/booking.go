package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

// SeatMap fetches the seat records and showtime details of a showtime.
func (c *Client) SeatMap(ctx context.Context, showtimeID string) (model.ShowtimeContext, []model.RawSeat, error) {
	content, err := c.call(ctx, http.MethodGet, "QuanLyDatVe/LayDanhSachPhongVe", url.Values{"MaLichChieu": {showtimeID}}, "", nil)
	if err != nil {
		return model.ShowtimeContext{}, nil, err
	}
	info := content.Get("thongTinPhim")
	sc := model.ShowtimeContext{
		ShowtimeID:  firstNonEmpty(info.Get("maLichChieu").String(), showtimeID),
		MovieTitle:  info.Get("tenPhim").String(),
		Poster:      info.Get("hinhAnh").String(),
		ShowDate:    info.Get("ngayChieu").String(),
		ShowTime:    info.Get("gioChieu").String(),
		Address:     info.Get("diaChi").String(),
		RoomName:    info.Get("tenRap").String(),
		ComplexName: info.Get("tenCumRap").String(),
		SystemName:  content.Get("tenHeThongRap").String(),
	}

	list := content.Get("danhSachGhe").Array()
	seats := make([]model.RawSeat, 0, len(list))
	for _, g := range list {
		seats = append(seats, model.RawSeat{
			ID:     g.Get("maGhe").String(),
			Name:   g.Get("tenGhe").String(),
			Type:   seatType(g.Get("loaiGhe").String()),
			Booked: g.Get("daDat").Bool(),
			Price:  int(g.Get("giaVe").Int()),
		})
		if sc.RoomID == "" {
			sc.RoomID = g.Get("maRap").String()
		}
	}
	return sc, seats, nil
}

func seatType(label string) model.SeatType {
	switch label {
	case "Vip", "VIP", "vip":
		return model.SeatVIP
	case "Thuong", "thuong", "normal":
		return model.SeatNormal
	}
	return ""
}

type bookingTicket struct {
	SeatID interface{} `json:"maGhe"`
	Price  int         `json:"giaVe"`
}

type bookingBody struct {
	ShowtimeID interface{}     `json:"maLichChieu"`
	Tickets    []bookingTicket `json:"danhSachVe"`
}

// Book submits a booking with the visitor's access token.
func (c *Client) Book(ctx context.Context, accessToken string, req model.BookingRequest) (model.Confirmation, error) {
	body := bookingBody{ShowtimeID: idValue(req.ShowtimeID), Tickets: make([]bookingTicket, 0, len(req.Tickets))}
	for _, t := range req.Tickets {
		body.Tickets = append(body.Tickets, bookingTicket{SeatID: idValue(t.SeatID), Price: t.Price})
	}
	content, err := c.call(ctx, http.MethodPost, "QuanLyDatVe/DatVe", nil, accessToken, body)
	if err != nil {
		return model.Confirmation{}, err
	}
	return confirmation(content), nil
}

// confirmation reads whatever the booking endpoint answered: a plain
// message, one ticket object, or a list of tickets of which the first
// describes the seat and room.
func confirmation(content gjson.Result) model.Confirmation {
	if content.Type == gjson.String {
		return model.Confirmation{Message: content.Str}
	}
	doc, first := content, content
	if content.IsArray() {
		first = content.Get("0")
		doc = first
	}
	return model.Confirmation{
		TicketID:    doc.Get("maVe").String(),
		BookedAt:    doc.Get("ngayDat").String(),
		MovieTitle:  doc.Get("tenPhim").String(),
		Poster:      doc.Get("hinhAnh").String(),
		Price:       int(doc.Get("giaVe").Int()),
		Duration:    int(doc.Get("thoiLuongPhim").Int()),
		RoomID:      first.Get("maRap").String(),
		RoomName:    first.Get("tenRap").String(),
		SeatID:      first.Get("maGhe").String(),
		SeatName:    first.Get("tenGhe").String(),
		SystemID:    first.Get("maHeThongRap").String(),
		SystemName:  first.Get("tenHeThongRap").String(),
		ComplexID:   first.Get("maCumRap").String(),
		ComplexName: first.Get("tenCumRap").String(),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
