// Package handler defines the HTTP handlers of the Late Show API.  Each
// handler parses its input, calls a repository and writes a response with
// an explicit status code; no error escapes to echo's default handler.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/model"
	"github.com/iliyamo/late-show-api/internal/queue"
)

// EpisodeStore is the episode persistence used by the handlers.
type EpisodeStore interface {
	ListAll(ctx context.Context) ([]*model.Episode, error)
	GetWithAppearances(ctx context.Context, id int64) (*model.EpisodeDetail, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// GuestStore is the guest persistence used by the handlers.
type GuestStore interface {
	ListAll(ctx context.Context) ([]*model.Guest, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// AppearanceStore is the appearance persistence used by the handlers.
type AppearanceStore interface {
	Create(ctx context.Context, a *model.Appearance) (*model.AppearanceDetail, error)
}

// Handler bundles the stores, the event publisher and the logger.
type Handler struct {
	Episodes    EpisodeStore
	Guests      GuestStore
	Appearances AppearanceStore
	Events      queue.Publisher
	Log         *zap.Logger
	DB          Pinger // optional, checked by Health
}

// New constructs a Handler and panics if any store is nil.  A nil publisher
// or logger is replaced with a no-op.
func New(episodes EpisodeStore, guests GuestStore, appearances AppearanceStore, events queue.Publisher, log *zap.Logger) *Handler {
	if episodes == nil || guests == nil || appearances == nil {
		panic("nil store passed to handler.New")
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Episodes: episodes, Guests: guests, Appearances: appearances, Events: events, Log: log}
}

// Home handles GET /.
func (h *Handler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the Late Show API"})
}

// parseID reads the :id path parameter.  Anything that is not an integer
// cannot name a row, so callers answer it with their not-found response.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

// internalError logs err and answers 500 without leaking details.
func (h *Handler) internalError(c echo.Context, op string, err error) error {
	h.Log.Error(op+" failed",
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// publish emits a domain event after a committed write.  Failures are
// logged and never change the response.
func (h *Handler) publish(ctx context.Context, typ string, payload any) {
	ev, err := queue.NewEvent(typ, payload)
	if err != nil {
		h.Log.Warn("build event failed", zap.String("type", typ), zap.Error(err))
		return
	}
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Log.Warn("event not published", zap.String("type", typ), zap.String("event_id", ev.ID), zap.Error(err))
	}
}
