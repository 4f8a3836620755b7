package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/iliyamo/movie-booking-client/internal/model"
)

func movieFrom(m gjson.Result) model.Movie {
	return model.Movie{
		ID:          m.Get("maPhim").String(),
		Title:       m.Get("tenPhim").String(),
		Slug:        m.Get("biDanh").String(),
		Trailer:     m.Get("trailer").String(),
		Poster:      m.Get("hinhAnh").String(),
		Description: m.Get("moTa").String(),
		ReleaseDate: m.Get("ngayKhoiChieu").String(),
		Rating:      m.Get("danhGia").Float(),
		Hot:         m.Get("hot").Bool(),
		NowShowing:  m.Get("dangChieu").Bool(),
		ComingSoon:  m.Get("sapChieu").Bool(),
	}
}

// Movies lists the catalog of the configured group.
func (c *Client) Movies(ctx context.Context) ([]model.Movie, error) {
	q := url.Values{}
	if c.group != "" {
		q.Set("maNhom", c.group)
	}
	content, err := c.call(ctx, http.MethodGet, "QuanLyPhim/LayDanhSachPhim", q, "", nil)
	if err != nil {
		return nil, err
	}
	out := []model.Movie{}
	content.ForEach(func(_, m gjson.Result) bool {
		out = append(out, movieFrom(m))
		return true
	})
	return out, nil
}

// Movie fetches one movie.
func (c *Client) Movie(ctx context.Context, id string) (model.Movie, error) {
	content, err := c.call(ctx, http.MethodGet, "QuanLyPhim/LayThongTinPhim", url.Values{"MaPhim": {id}}, "", nil)
	if err != nil {
		return model.Movie{}, err
	}
	return movieFrom(content), nil
}

// Banners lists the home page banners.
func (c *Client) Banners(ctx context.Context) ([]model.Banner, error) {
	content, err := c.call(ctx, http.MethodGet, "QuanLyPhim/LayDanhSachBanner", nil, "", nil)
	if err != nil {
		return nil, err
	}
	out := []model.Banner{}
	content.ForEach(func(_, b gjson.Result) bool {
		out = append(out, model.Banner{
			ID:      b.Get("maBanner").String(),
			MovieID: b.Get("maPhim").String(),
			Image:   b.Get("hinhAnh").String(),
		})
		return true
	})
	return out, nil
}

// CinemaSystems lists the cinema chains.
func (c *Client) CinemaSystems(ctx context.Context) ([]model.CinemaSystem, error) {
	content, err := c.call(ctx, http.MethodGet, "QuanLyRap/LayThongTinHeThongRap", nil, "", nil)
	if err != nil {
		return nil, err
	}
	out := []model.CinemaSystem{}
	content.ForEach(func(_, s gjson.Result) bool {
		out = append(out, model.CinemaSystem{
			ID:   s.Get("maHeThongRap").String(),
			Name: s.Get("tenHeThongRap").String(),
			Logo: s.Get("logo").String(),
		})
		return true
	})
	return out, nil
}

// Complexes lists the venues of one chain.
func (c *Client) Complexes(ctx context.Context, systemID string) ([]model.CinemaComplex, error) {
	content, err := c.call(ctx, http.MethodGet, "QuanLyRap/LayThongTinCumRapTheoHeThong", url.Values{"maHeThongRap": {systemID}}, "", nil)
	if err != nil {
		return nil, err
	}
	out := []model.CinemaComplex{}
	content.ForEach(func(_, cx gjson.Result) bool {
		cc := model.CinemaComplex{
			ID:      cx.Get("maCumRap").String(),
			Name:    cx.Get("tenCumRap").String(),
			Address: cx.Get("diaChi").String(),
		}
		for _, r := range cx.Get("danhSachRap.#.tenRap").Array() {
			cc.Rooms = append(cc.Rooms, r.String())
		}
		out = append(out, cc)
		return true
	})
	return out, nil
}

// Showtimes lists every screening of a movie across chains and venues.
func (c *Client) Showtimes(ctx context.Context, movieID string) ([]model.Showtime, error) {
	content, err := c.call(ctx, http.MethodGet, "QuanLyRap/LayThongTinLichChieuPhim", url.Values{"MaPhim": {movieID}}, "", nil)
	if err != nil {
		return nil, err
	}
	out := []model.Showtime{}
	for _, sys := range content.Get("heThongRapChieu").Array() {
		for _, cx := range sys.Get("cumRapChieu").Array() {
			for _, lc := range cx.Get("lichChieuPhim").Array() {
				out = append(out, model.Showtime{
					ID:          lc.Get("maLichChieu").String(),
					SystemID:    sys.Get("maHeThongRap").String(),
					SystemName:  sys.Get("tenHeThongRap").String(),
					ComplexID:   cx.Get("maCumRap").String(),
					ComplexName: cx.Get("tenCumRap").String(),
					RoomName:    lc.Get("tenRap").String(),
					StartsAt:    lc.Get("ngayChieuGioChieu").String(),
					Price:       int(lc.Get("giaVe").Int()),
					Duration:    int(lc.Get("thoiLuong").Int()),
				})
			}
		}
	}
	return out, nil
}
