package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/ledgerpress/notifier/internal/application"
	"github.com/ledgerpress/notifier/internal/domain"
)

// Handler holds all HTTP handler methods.
type Handler struct {
	svc     *application.Service
	hub     *Hub
	baseURL string
}

// NewHandler creates a new Handler. baseURL is the trusted public origin
// used for links in outbound email; it is configuration, never derived from
// request headers.
func NewHandler(svc *application.Service, hub *Hub, baseURL string) *Handler {
	return &Handler{svc: svc, hub: hub, baseURL: baseURL}
}

// --- Public handlers ---

// Subscribe POST /subscribe
func (h *Handler) Subscribe(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sub, created, err := h.svc.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, application.ErrInvalidEmail) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
		}
		return echo.ErrInternalServerError
	}

	// 201 for a new subscriber, 200 when an existing one was reactivated.
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, map[string]any{
		"id":    sub.ID,
		"email": sub.Email,
	})
}

// Unsubscribe GET /unsubscribe?email=...&id=...
// Consumes the link embedded in every notification email.
func (h *Handler) Unsubscribe(c echo.Context) error {
	email := c.QueryParam("email")
	id := c.QueryParam("id")
	if email == "" || id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and id are required")
	}

	err := h.svc.Unsubscribe(c.Request().Context(), id, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subscription not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.HTML(http.StatusOK, "<p>You have been unsubscribed. Sorry to see you go.</p>")
}

// --- Admin handlers ---

// TriggerNotification POST /admin/posts/:id/notifications
// Manual re-trigger of the publish notification for a post.
func (h *Handler) TriggerNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	result, err := h.svc.Notify(c.Request().Context(), id, h.baseURL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		case errors.Is(err, application.ErrNotPublished):
			return echo.NewHTTPError(http.StatusConflict, "post is not published")
		case errors.Is(err, application.ErrAlreadyNotified):
			return echo.NewHTTPError(http.StatusConflict, "subscribers already notified for this post")
		}
		log.Error().Err(err).Str("post_id", id.String()).Msg("manual notification trigger failed")
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, result)
}

// NotificationStats GET /admin/posts/:id/notifications
func (h *Handler) NotificationStats(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	stats, err := h.svc.Stats(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, stats)
}

// Stream GET /admin/notifications/stream — SSE feed of dispatch summaries.
func (h *Handler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sendCh := make(chan []byte, 32)
	client := h.hub.Register(sendCh)
	defer h.hub.Unregister(client)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"ok\"}\n\n")
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case msg, ok := <-sendCh:
			if !ok {
				return nil
			}
			if _, err := w.Write(msg); err != nil {
				return nil
			}
			w.Flush()

		case <-ctx.Done():
			log.Debug().Msg("admin SSE stream closed by client")
			return nil
		}
	}
}

// --- Healthcheck ---

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"sse_clients": h.hub.ConnectedCount(),
	})
}
