package handler

import "github.com/iliyamo/late-show-api/internal/model"

// Each response context has its own shape.  Nested children never carry
// their parent back, so there is nothing to break at encode time.

// EpisodeSummary is an episode in list views.
type EpisodeSummary struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Number int    `json:"number"`
}

// GuestSummary is a guest in list views and when nested.
type GuestSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

// EpisodeAppearance is one entry of an episode's line-up.  It names the
// guest but not the episode it already sits under.
type EpisodeAppearance struct {
	ID        int64        `json:"id"`
	Rating    int          `json:"rating"`
	GuestID   int64        `json:"guest_id"`
	EpisodeID int64        `json:"episode_id"`
	Guest     GuestSummary `json:"guest"`
}

// EpisodeDetail is the GET /episodes/:id body.
type EpisodeDetail struct {
	ID          int64               `json:"id"`
	Date        string              `json:"date"`
	Number      int                 `json:"number"`
	Appearances []EpisodeAppearance `json:"appearances"`
}

// AppearanceCreated is the POST /appearances body, with both parents.
type AppearanceCreated struct {
	ID        int64          `json:"id"`
	Rating    int            `json:"rating"`
	GuestID   int64          `json:"guest_id"`
	EpisodeID int64          `json:"episode_id"`
	Episode   EpisodeSummary `json:"episode"`
	Guest     GuestSummary   `json:"guest"`
}

func episodeSummary(e model.Episode) EpisodeSummary {
	return EpisodeSummary{ID: e.ID, Date: e.Date, Number: e.Number}
}

func guestSummary(g model.Guest) GuestSummary {
	return GuestSummary{ID: g.ID, Name: g.Name, Occupation: g.Occupation}
}

func episodeDetail(d *model.EpisodeDetail) EpisodeDetail {
	out := EpisodeDetail{
		ID:          d.ID,
		Date:        d.Date,
		Number:      d.Number,
		Appearances: make([]EpisodeAppearance, 0, len(d.Appearances)),
	}
	for _, a := range d.Appearances {
		out.Appearances = append(out.Appearances, EpisodeAppearance{
			ID:        a.ID,
			Rating:    a.Rating,
			GuestID:   a.GuestID,
			EpisodeID: a.EpisodeID,
			Guest:     guestSummary(a.Guest),
		})
	}
	return out
}

func appearanceCreated(d *model.AppearanceDetail) AppearanceCreated {
	return AppearanceCreated{
		ID:        d.ID,
		Rating:    d.Rating,
		GuestID:   d.GuestID,
		EpisodeID: d.EpisodeID,
		Episode:   episodeSummary(d.Episode),
		Guest:     guestSummary(d.Guest),
	}
}
