package model

import (
	"errors"
	"fmt"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ErrRatingOutOfRange is returned when an appearance is given a rating
// outside [MinRating, MaxRating].
var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// Appearance links one guest to one episode with a 1–5 rating.
//
// Fields:
//
//	ID        – primary key identifier.
//	Rating    – score between MinRating and MaxRating inclusive.
//	EpisodeID – episode the guest appeared on.
//	GuestID   – guest who appeared.
type Appearance struct {
	ID        int64 // appearances.id
	Rating    int   // appearances.rating
	EpisodeID int64 // appearances.episode_id
	GuestID   int64 // appearances.guest_id
}

// AppearanceDetail is a created appearance with both of its parents
// attached.
type AppearanceDetail struct {
	Appearance
	Episode Episode
	Guest   Guest
}

// NewAppearance builds an unsaved appearance, rejecting ratings
// outside the allowed range.
func NewAppearance(rating int, episodeID, guestID int64) (*Appearance, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	return &Appearance{Rating: rating, EpisodeID: episodeID, GuestID: guestID}, nil
}

// ValidateRating reports whether r is an acceptable rating.
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: got %d", ErrRatingOutOfRange, r)
	}
	return nil
}
