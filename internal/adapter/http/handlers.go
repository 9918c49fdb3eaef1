package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{ policyName string }

func NewHandler(policyName string) *Handler { return &Handler{policyName: policyName} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"policy": h.policyName,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
