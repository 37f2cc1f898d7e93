package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/datamining-co/minai/internal/domain"
	"github.com/datamining-co/minai/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.GET("/ws", h.ChatSocket)
	e.DELETE("/history/:user_id", h.ClearHistory)
	e.GET("/stats/:user_id", h.GetStats)
	e.GET("/health", h.Health)
}

// Chat runs one turn.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.TurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	// Anonymous callers are keyed by client address, matching the original
	// deployment's behavior.
	if req.UserID == "" {
		req.UserID = c.RealIP()
	}

	result := h.service.SubmitTurn(c.Request().Context(), req)
	return c.JSON(http.StatusOK, result)
}

// ClearHistory removes a user's conversation.
// DELETE /history/:user_id
func (h *Handler) ClearHistory(c echo.Context) error {
	userID := c.Param("user_id")
	cleared := h.service.ClearHistory(userID)
	return c.JSON(http.StatusOK, map[string]bool{"cleared": cleared})
}

// GetStats returns a conversation snapshot.
// GET /stats/:user_id
func (h *Handler) GetStats(c echo.Context) error {
	userID := c.Param("user_id")
	snapshot, ok := h.service.GetStats(userID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no history for user"})
	}
	return c.JSON(http.StatusOK, snapshot)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
