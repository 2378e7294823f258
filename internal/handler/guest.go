package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/late-show-api/internal/queue"
	"github.com/iliyamo/late-show-api/internal/repository"
)

const msgGuestNotFound = "Guest not found"

// ListGuests handles GET /guests.
func (h *Handler) ListGuests(c echo.Context) error {
	guests, err := h.Guests.ListAll(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list guests", err)
	}
	out := make([]GuestSummary, 0, len(guests))
	for _, g := range guests {
		out = append(out, guestSummary(*g))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteGuest handles DELETE /guests/:id, removing the guest's appearances
// with them.
func (h *Handler) DeleteGuest(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, msgGuestNotFound)
	}
	ctx := c.Request().Context()
	removed, err := h.Guests.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return notFound(c, msgGuestNotFound)
		}
		return h.internalError(c, "delete guest", err)
	}
	h.publish(ctx, queue.TypeGuestDeleted, queue.GuestDeleted{GuestID: id, AppearancesRemoved: removed})
	return c.NoContent(http.StatusNoContent)
}
