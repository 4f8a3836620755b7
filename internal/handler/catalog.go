package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the read-only movie and cinema listings.  The
// routes are wrapped in the Redis catalog cache.
type CatalogHandler struct {
	API CatalogAPI
}

func NewCatalogHandler(api CatalogAPI) *CatalogHandler {
	return &CatalogHandler{API: api}
}

func (h *CatalogHandler) Movies(c echo.Context) error {
	list, err := h.API.Movies(c.Request().Context())
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Movie(c echo.Context) error {
	m, err := h.API.Movie(c.Request().Context(), c.Param("id"))
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *CatalogHandler) Showtimes(c echo.Context) error {
	list, err := h.API.Showtimes(c.Request().Context(), c.Param("id"))
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Banners(c echo.Context) error {
	list, err := h.API.Banners(c.Request().Context())
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) CinemaSystems(c echo.Context) error {
	list, err := h.API.CinemaSystems(c.Request().Context())
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Complexes(c echo.Context) error {
	list, err := h.API.Complexes(c.Request().Context(), c.Param("system"))
	if err != nil {
		return remoteFailure(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
