package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careops/hms/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	grp := api.Group("", auth.RequireRole("admin"))
	grp.GET("/analytics/financial", h.Financial)
}

func (h *Handler) Financial(c echo.Context) error {
	rng, err := ParseTimeRange(c.QueryParam("range"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	snap, err := h.svc.FinancialSnapshot(c.Request().Context(), rng)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute financial snapshot")
	}
	return c.JSON(http.StatusOK, snap)
}
