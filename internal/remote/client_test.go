package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/iliyamo/movie-booking-client/internal/logging"
	"github.com/iliyamo/movie-booking-client/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", APIToken: "cyber", Group: "GP07"}, srv.Client(), logging.Discard())
	require.NoError(t, err)
	return c
}

const seatMapPayload = `{
  "statusCode": 200,
  "content": {
    "thongTinPhim": {"maLichChieu": 44711, "tenCumRap": "CGV - Vincom", "tenRap": "Rạp 5",
      "diaChi": "Q1", "tenPhim": "Dune", "hinhAnh": "dune.jpg", "ngayChieu": "01/03/2024", "gioChieu": "10:00"},
    "danhSachGhe": [
      {"maGhe": 48001, "tenGhe": "01", "maRap": 455, "loaiGhe": "Thuong", "stt": "01", "giaVe": 75000, "daDat": false},
      {"maGhe": 48002, "tenGhe": "02", "maRap": 455, "loaiGhe": "Vip", "stt": "02", "giaVe": 90000, "daDat": true, "taiKhoanNguoiDat": "x"},
      {"maGhe": "48003", "tenGhe": "03", "maRap": 455, "stt": "03", "giaVe": 0}
    ]
  }
}`

func TestSeatMap_NormalisesPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/QuanLyDatVe/LayDanhSachPhongVe", r.URL.Path)
		assert.Equal(t, "44711", r.URL.Query().Get("MaLichChieu"))
		assert.Equal(t, "cyber", r.Header.Get("TokenCybersoft"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, seatMapPayload)
	})

	info, seats, err := c.SeatMap(context.Background(), "44711")
	require.NoError(t, err)
	assert.Equal(t, model.ShowtimeContext{
		ShowtimeID: "44711", MovieTitle: "Dune", Poster: "dune.jpg", ShowDate: "01/03/2024",
		ShowTime: "10:00", Address: "Q1", RoomID: "455", RoomName: "Rạp 5", ComplexName: "CGV - Vincom",
	}, info)
	require.Len(t, seats, 3)
	assert.Equal(t, model.RawSeat{ID: "48001", Name: "01", Type: model.SeatNormal, Price: 75000}, seats[0])
	assert.Equal(t, model.RawSeat{ID: "48002", Name: "02", Type: model.SeatVIP, Booked: true, Price: 90000}, seats[1])
	assert.Equal(t, model.RawSeat{ID: "48003", Name: "03"}, seats[2])
}

func TestBook_SendsRemoteShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"maLichChieu":44711,"danhSachVe":[{"maGhe":48001,"giaVe":75000},{"maGhe":"seat_A2","giaVe":90000}]}`, string(body))
		_, _ = io.WriteString(w, `{"statusCode":200,"content":"Đặt vé thành công!"}`)
	})

	conf, err := c.Book(context.Background(), "tok", model.BookingRequest{
		ShowtimeID: "44711",
		Tickets:    []model.Ticket{{SeatID: "48001", Price: 75000}, {SeatID: "seat_A2", Price: 90000}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Confirmation{Message: "Đặt vé thành công!"}, conf)
}

func TestConfirmation_ReadsTicketList(t *testing.T) {
	content := gjson.Parse(`[{"maVe": 77, "ngayDat": "2024-03-01T10:00:00", "tenPhim": "Dune", "giaVe": 90000,
		"maGhe": 48002, "tenGhe": "02", "tenRap": "Rạp 5", "tenHeThongRap": "CGV"}]`)
	conf := confirmation(content)
	assert.Equal(t, "77", conf.TicketID)
	assert.Equal(t, "Dune", conf.MovieTitle)
	assert.Equal(t, "48002", conf.SeatID)
	assert.Equal(t, "CGV", conf.SystemName)
}

func TestCall_ErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"content string", http.StatusBadRequest, `{"statusCode":400,"message":"Không tìm thấy tài nguyên!","content":"Ghế đã được đặt"}`, "Ghế đã được đặt"},
		{"message fallback", http.StatusInternalServerError, `{"statusCode":500,"message":"Lỗi server","content":null}`, "Lỗi server"},
		{"plain text", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"empty body", http.StatusForbidden, ``, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.Banners(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.UserMessage())
			assert.False(t, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestCall_UnauthorizedIsMatchable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"statusCode":401,"content":"Token hết hạn"}`)
	})
	_, err := c.Account(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_ReadsAccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"taiKhoan": "alice", "matKhau": "secret"}, body)
		_, _ = io.WriteString(w, `{"content":{"taiKhoan":"alice","hoTen":"Alice","email":"a@x.vn","soDT":"0901234567","maNhom":"GP07","maLoaiNguoiDung":"KhachHang","accessToken":"jwt-abc"}}`)
	})
	u, err := c.Login(context.Background(), model.Credentials{Account: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, model.AuthUser{
		Account: "alice", FullName: "Alice", Email: "a@x.vn", Phone: "0901234567",
		Group: "GP07", UserType: "KhachHang", AccessToken: "jwt-abc",
	}, u)
}

func TestAccount_ReadsBookingHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"content":{"taiKhoan":"alice","email":"a@x.vn","hoTen":"Alice",
			"thongTinDatVe":[{"maVe":9,"ngayDat":"2024-03-01","tenPhim":"Dune","giaVe":75000,"thoiLuongPhim":120,
			"danhSachGhe":[{"maGhe":48001,"tenGhe":"17","maRap":455,"tenRap":"Rạp 5","tenHeThongRap":"CGV"}]}]}}`)
	})
	acc, err := c.Account(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Profile.Account)
	require.Len(t, acc.Bookings, 1)
	b := acc.Bookings[0]
	assert.Equal(t, "9", b.TicketID)
	assert.Equal(t, "48001", b.SeatID)
	assert.Equal(t, "17", b.SeatName)
	assert.Equal(t, "Rạp 5", b.RoomName)
	assert.Equal(t, 120, b.Duration)
	assert.Len(t, b.Seats, 1)
}

func TestShowtimes_FlattensTree(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1282", r.URL.Query().Get("MaPhim"))
		_, _ = io.WriteString(w, `{"content":{"heThongRapChieu":[{"maHeThongRap":"CGV","tenHeThongRap":"CGV",
			"cumRapChieu":[{"maCumRap":"cgv-vincom","tenCumRap":"Vincom","lichChieuPhim":[
			{"maLichChieu":"44711","tenRap":"Rạp 5","ngayChieuGioChieu":"2024-03-01T10:00:00","giaVe":75000,"thoiLuong":120},
			{"maLichChieu":"44712","tenRap":"Rạp 6","ngayChieuGioChieu":"2024-03-01T13:00:00","giaVe":75000,"thoiLuong":120}]}]}]}}`)
	})
	list, err := c.Showtimes(context.Background(), "1282")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.Showtime{
		ID: "44711", SystemID: "CGV", SystemName: "CGV", ComplexID: "cgv-vincom", ComplexName: "Vincom",
		RoomName: "Rạp 5", StartsAt: "2024-03-01T10:00:00", Price: 75000, Duration: 120,
	}, list[0])
}

func TestMovies_SendsGroup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GP07", r.URL.Query().Get("maNhom"))
		_, _ = io.WriteString(w, `{"content":[{"maPhim":1282,"tenPhim":"Dune","danhGia":9,"dangChieu":true}]}`)
	})
	list, err := c.Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1282", list[0].ID)
	assert.True(t, list[0].NowShowing)
	assert.Equal(t, float64(9), list[0].Rating)
}
