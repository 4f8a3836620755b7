// Package handler exposes the HTTP API of the booking service: visitor
// tokens, remote login, the cached catalog, the seat reservation session
// and the member profile pages.
package handler

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking-client/internal/middleware"
	"github.com/iliyamo/movie-booking-client/internal/model"
	"github.com/iliyamo/movie-booking-client/internal/remote"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

// CatalogAPI is the part of the remote client the catalog routes use.
type CatalogAPI interface {
	Movies(ctx context.Context) ([]model.Movie, error)
	Movie(ctx context.Context, id string) (model.Movie, error)
	Showtimes(ctx context.Context, movieID string) ([]model.Showtime, error)
	Banners(ctx context.Context) ([]model.Banner, error)
	CinemaSystems(ctx context.Context) ([]model.CinemaSystem, error)
	Complexes(ctx context.Context, systemID string) ([]model.CinemaComplex, error)
}

// SeatMapAPI loads the seat map of a showtime.
type SeatMapAPI interface {
	SeatMap(ctx context.Context, showtimeID string) (model.ShowtimeContext, []model.RawSeat, error)
}

// AccountAPI is the part of the remote client behind login and profile.
type AccountAPI interface {
	Login(ctx context.Context, cred model.Credentials) (model.AuthUser, error)
	Register(ctx context.Context, p model.Profile) (model.Profile, error)
	Account(ctx context.Context, accessToken string) (model.Account, error)
	UpdateProfile(ctx context.Context, accessToken string, p model.Profile) (model.Profile, error)
}

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	V *validator.Validate
}

// NewRequestValidator returns a validator using the struct tags of package
// model.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{V: validator.New()}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.V.Struct(i)
}

// bindAndValidate decodes the body into dst and runs the validator.  It
// writes the error response itself and reports whether the caller should
// go on.
func bindAndValidate(c echo.Context, dst interface{}) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return false, c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fields})
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return true, nil
}

// visitorStore is the storage of the calling visitor.
func visitorStore(base storage.Store, c echo.Context) storage.Store {
	return storage.Scope(base, middleware.VisitorID(c))
}

// isTimeout reports a deadline or network timeout anywhere in err's chain.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// remoteFailure maps an error from the movie API to a response.  Rejections
// keep the API's message; transport problems get a generic one.
func remoteFailure(c echo.Context, err error) error {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": apiErr.Message, "redirect": "/login"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": apiErr.Message})
	}
	if isTimeout(err) {
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "movie service timed out"})
	}
	c.Logger().Errorj(map[string]interface{}{"event": "remote_failure", "error": err.Error()})
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "movie service unavailable"})
}
