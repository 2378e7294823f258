package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/late-show-api/internal/model"
	"github.com/iliyamo/late-show-api/internal/queue"
	"github.com/iliyamo/late-show-api/internal/repository"
	"github.com/iliyamo/late-show-api/internal/validation"
)

// maxBodyBytes caps the POST /appearances body.
const maxBodyBytes = 64 << 10

// CreateAppearance handles POST /appearances.  Checks run in order (input
// types, rating range, then existence of the episode and guest) and the
// first failure is returned as 400 {"errors": [...]}.
func (h *Handler) CreateAppearance(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return validationFailed(c, validation.MsgInvalidTypes)
	}
	in, err := validation.ParseAppearance(body)
	if err != nil {
		return respondValidation(c, err)
	}
	a, err := in.Appearance()
	if err != nil {
		return validationFailed(c, validation.MsgRatingRange)
	}

	ctx := c.Request().Context()
	d, err := h.Appearances.Create(ctx, a)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrReferenceNotFound):
		return respondValidation(c, validation.ReferenceError())
	case errors.Is(err, model.ErrRatingOutOfRange):
		return validationFailed(c, validation.MsgRatingRange)
	default:
		return h.internalError(c, "create appearance", err)
	}

	h.publish(ctx, queue.TypeAppearanceCreated, queue.AppearanceCreated{
		AppearanceID: d.ID,
		EpisodeID:    d.EpisodeID,
		GuestID:      d.GuestID,
		Rating:       d.Rating,
	})
	return c.JSON(http.StatusCreated, appearanceCreated(d))
}

func respondValidation(c echo.Context, err error) error {
	if ve, ok := validation.AsError(err); ok {
		return validationFailed(c, ve.Messages...)
	}
	return validationFailed(c, validation.MsgInvalidTypes)
}

func validationFailed(c echo.Context, msgs ...string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": msgs})
}
