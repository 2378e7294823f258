// Package validation checks appearance creation requests before they reach
// the database. Checks run in a fixed order and stop at the first failing
// category: type coercion, then rating range. Existence of the referenced
// episode and guest is checked by the repository inside the insert
// transaction and reported with ReferenceError.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/late-show-api/internal/model"
)

// Messages returned to clients in the "errors" array.
const (
	MsgInvalidTypes      = "Invalid input types"
	MsgRatingRange       = "Rating must be between 1 and 5"
	MsgReferenceNotFound = "Episode or Guest not found"
)

// Error carries one or more client-facing validation messages.
type Error struct {
	Messages []string
}

func (e *Error) Error() string { return strings.Join(e.Messages, "; ") }

func newError(msgs ...string) *Error { return &Error{Messages: msgs} }

// ReferenceError is the failure reported when the episode or guest named by
// a request does not exist.
func ReferenceError() *Error { return newError(MsgReferenceNotFound) }

// AsError unwraps err into a validation error if it is one.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AppearanceInput is a request body that passed coercion and range checks.
type AppearanceInput struct {
	Rating    int
	EpisodeID int64
	GuestID   int64
}

// Appearance converts it into an unsaved model.Appearance.
func (in AppearanceInput) Appearance() (*model.Appearance, error) {
	return model.NewAppearance(in.Rating, in.EpisodeID, in.GuestID)
}

// ParseAppearance decodes a POST /appearances body. Each of rating,
// episode_id and guest_id must be an integer or a string holding one;
// anything else (including a malformed body) fails with MsgInvalidTypes.
// A rating outside [1,5] fails with MsgRatingRange.
func ParseAppearance(body []byte) (AppearanceInput, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return AppearanceInput{}, newError(MsgInvalidTypes)
	}
	rating, ok1 := coerceInt(raw["rating"])
	episodeID, ok2 := coerceInt(raw["episode_id"])
	guestID, ok3 := coerceInt(raw["guest_id"])
	if !ok1 || !ok2 || !ok3 {
		return AppearanceInput{}, newError(MsgInvalidTypes)
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return AppearanceInput{}, newError(MsgRatingRange)
	}
	return AppearanceInput{Rating: int(rating), EpisodeID: episodeID, GuestID: guestID}, nil
}

// coerceInt accepts JSON integers, integral floats (4.0, 1e2) and strings
// containing a base-10 integer. null, booleans, objects and arrays fail.
func coerceInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
