package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/late-show-api/internal/queue"
	"github.com/iliyamo/late-show-api/internal/repository"
)

const msgEpisodeNotFound = "Episode not found"

// ListEpisodes handles GET /episodes and returns every episode in summary
// form.
func (h *Handler) ListEpisodes(c echo.Context) error {
	eps, err := h.Episodes.ListAll(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list episodes", err)
	}
	out := make([]EpisodeSummary, 0, len(eps))
	for _, e := range eps {
		out = append(out, episodeSummary(*e))
	}
	return c.JSON(http.StatusOK, out)
}

// GetEpisode handles GET /episodes/:id and returns the episode with its
// appearances and their guests.
func (h *Handler) GetEpisode(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, msgEpisodeNotFound)
	}
	d, err := h.Episodes.GetWithAppearances(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEpisodeNotFound) {
			return notFound(c, msgEpisodeNotFound)
		}
		return h.internalError(c, "get episode", err)
	}
	return c.JSON(http.StatusOK, episodeDetail(d))
}

// DeleteEpisode handles DELETE /episodes/:id.  The episode and all of its
// appearances are removed together; 204 on success, 404 when missing.
func (h *Handler) DeleteEpisode(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, msgEpisodeNotFound)
	}
	ctx := c.Request().Context()
	removed, err := h.Episodes.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEpisodeNotFound) {
			return notFound(c, msgEpisodeNotFound)
		}
		return h.internalError(c, "delete episode", err)
	}
	h.publish(ctx, queue.TypeEpisodeDeleted, queue.EpisodeDeleted{EpisodeID: id, AppearancesRemoved: removed})
	return c.NoContent(http.StatusNoContent)
}
