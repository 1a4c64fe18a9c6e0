package bed

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Kazuchan1889/bed-management/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/beds", h.ListBeds)
	// Register before /beds/:id so "stats" is not parsed as a bed id.
	api.GET("/beds/stats/overview", h.Stats)
	api.GET("/beds/:id", h.GetBed)
	api.POST("/beds/:id/assign", h.AssignBed)
	api.POST("/beds/:id/release", h.ReleaseBed)
	api.POST("/beds/:id/repair", h.SetRepair)
	api.POST("/beds/:id/available", h.SetAvailable)
	api.GET("/history", h.ListHistory)
}

func bedID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid bed id")
	}
	return id, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "bed not found")
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) ListBeds(c echo.Context) error {
	var f Filter
	if v := c.QueryParam("status"); v != "" {
		s := Status(v)
		f.Status = &s
	}
	if v := c.QueryParam("floor"); v != "" {
		floor, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid floor")
		}
		f.Floor = &floor
	}
	if v := c.QueryParam("room"); v != "" {
		f.Room = &v
	}

	beds, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	if beds == nil {
		beds = []*Bed{}
	}
	return c.JSON(http.StatusOK, beds)
}

func (h *Handler) GetBed(c echo.Context) error {
	id, err := bedID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) AssignBed(c echo.Context) error {
	id, err := bedID(c)
	if err != nil {
		return err
	}
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.Assign(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ReleaseBed(c echo.Context) error {
	id, err := bedID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.Release(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) SetRepair(c echo.Context) error {
	id, err := bedID(c)
	if err != nil {
		return err
	}
	var req RepairRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.SetRepair(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) SetAvailable(c echo.Context) error {
	id, err := bedID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.SetAvailable(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Stats(c echo.Context) error {
	var floor *int
	if v := c.QueryParam("floor"); v != "" {
		f, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid floor")
		}
		floor = &f
	}
	stats, err := h.svc.Stats(c.Request().Context(), floor)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListHistory(c echo.Context) error {
	var floor *int
	if v := c.QueryParam("floor"); v != "" {
		f, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid floor")
		}
		floor = &f
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListHistory(c.Request().Context(), floor, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*History{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
