package remote

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

func profileFrom(p gjson.Result) model.Profile {
	return model.Profile{
		Account:  p.Get("taiKhoan").String(),
		Email:    p.Get("email").String(),
		Phone:    firstNonEmpty(p.Get("soDT").String(), p.Get("soDt").String()),
		Group:    p.Get("maNhom").String(),
		UserType: p.Get("maLoaiNguoiDung").String(),
		FullName: p.Get("hoTen").String(),
	}
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, cred model.Credentials) (model.AuthUser, error) {
	content, err := c.call(ctx, http.MethodPost, "QuanLyNguoiDung/DangNhap", nil, "", cred)
	if err != nil {
		return model.AuthUser{}, err
	}
	p := profileFrom(content)
	return model.AuthUser{
		Account:     firstNonEmpty(p.Account, cred.Account),
		FullName:    p.FullName,
		Email:       p.Email,
		Phone:       p.Phone,
		Group:       p.Group,
		UserType:    p.UserType,
		AccessToken: content.Get("accessToken").String(),
	}, nil
}

// Register creates an account in the configured group.
func (c *Client) Register(ctx context.Context, p model.Profile) (model.Profile, error) {
	if p.Group == "" {
		p.Group = c.group
	}
	content, err := c.call(ctx, http.MethodPost, "QuanLyNguoiDung/DangKy", nil, "", p)
	if err != nil {
		return model.Profile{}, err
	}
	if content.IsObject() {
		return profileFrom(content), nil
	}
	p.Password = ""
	return p, nil
}

// Account fetches the profile and the server side booking history of the
// logged in user.  Seat rows and columns are left as the server sent them.
func (c *Client) Account(ctx context.Context, accessToken string) (model.Account, error) {
	content, err := c.call(ctx, http.MethodPost, "QuanLyNguoiDung/ThongTinTaiKhoan", nil, accessToken, struct{}{})
	if err != nil {
		return model.Account{}, err
	}
	acc := model.Account{Profile: profileFrom(content), Bookings: []model.Receipt{}}
	for _, b := range content.Get("thongTinDatVe").Array() {
		acc.Bookings = append(acc.Bookings, receiptFrom(b))
	}
	return acc, nil
}

func receiptFrom(b gjson.Result) model.Receipt {
	r := model.Receipt{
		TicketID:   firstNonEmpty(b.Get("maVe").String(), b.Get("mave").String()),
		BookedAt:   b.Get("ngayDat").String(),
		MovieTitle: b.Get("tenPhim").String(),
		Poster:     b.Get("hinhAnh").String(),
		Price:      int(b.Get("giaVe").Int()),
		Duration:   int(b.Get("thoiLuongPhim").Int()),
	}
	seats := b.Get("danhSachGhe").Array()
	for _, g := range seats {
		r.Seats = append(r.Seats, model.ReceiptSeat{
			SeatID: g.Get("maGhe").String(),
			Name:   g.Get("tenGhe").String(),
			Row:    g.Get("row").String(),
			Column: int(g.Get("column").Int()),
		})
	}
	head := b
	if len(seats) > 0 {
		head = seats[0]
	}
	r.SeatID = head.Get("maGhe").String()
	r.SeatName = head.Get("tenGhe").String()
	r.RoomID = head.Get("maRap").String()
	r.RoomName = head.Get("tenRap").String()
	r.ComplexID = head.Get("maCumRap").String()
	r.ComplexName = head.Get("tenCumRap").String()
	r.SystemID = head.Get("maHeThongRap").String()
	r.SystemName = head.Get("tenHeThongRap").String()
	return r
}

// UpdateProfile saves profile changes of the logged in user.
func (c *Client) UpdateProfile(ctx context.Context, accessToken string, p model.Profile) (model.Profile, error) {
	if p.Group == "" {
		p.Group = c.group
	}
	content, err := c.call(ctx, http.MethodPut, "QuanLyNguoiDung/CapNhatThongTinNguoiDung", nil, accessToken, p)
	if err != nil {
		return model.Profile{}, err
	}
	if content.IsObject() {
		return profileFrom(content), nil
	}
	p.Password = ""
	return p, nil
}
