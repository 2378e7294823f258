package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/late-show-api/internal/model"
)

// AppearanceRepo persists appearances. Creation checks both parents inside
// the same transaction as the insert.
type AppearanceRepo struct {
	db *sql.DB
}

// NewAppearanceRepo constructs an AppearanceRepo.
func NewAppearanceRepo(db *sql.DB) *AppearanceRepo {
	return &AppearanceRepo{db: db}
}

// Create validates the rating, verifies that the referenced episode and
// guest exist, inserts the appearance and returns it together with both
// parents. ErrReferenceNotFound is returned when either parent is missing;
// in that case nothing is written.
func (r *AppearanceRepo) Create(ctx context.Context, a *model.Appearance) (out *model.AppearanceDetail, err error) {
	if err := model.ValidateRating(a.Rating); err != nil {
		return nil, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer finishTx(tx, &err)

	d := &model.AppearanceDetail{}
	err = tx.QueryRowContext(ctx, `SELECT id, date, number FROM episodes WHERE id = ?`, a.EpisodeID).
		Scan(&d.Episode.ID, &d.Episode.Date, &d.Episode.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrReferenceNotFound
		}
		return nil, err
	}
	err = tx.QueryRowContext(ctx, `SELECT id, name, occupation FROM guests WHERE id = ?`, a.GuestID).
		Scan(&d.Guest.ID, &d.Guest.Name, &d.Guest.Occupation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrReferenceNotFound
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO appearances (rating, episode_id, guest_id) VALUES (?, ?, ?)`,
		a.Rating, a.EpisodeID, a.GuestID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	err = tx.QueryRowContext(ctx, `SELECT id, rating, episode_id, guest_id FROM appearances WHERE id = ?`, id).
		Scan(&d.ID, &d.Rating, &d.EpisodeID, &d.GuestID)
	if err != nil {
		return nil, err
	}
	a.ID = d.ID
	return d, nil
}

// CountByEpisode returns how many appearances reference the episode.
func (r *AppearanceRepo) CountByEpisode(ctx context.Context, episodeID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(1) FROM appearances WHERE episode_id = ?`, episodeID)
}

// CountByGuest returns how many appearances reference the guest.
func (r *AppearanceRepo) CountByGuest(ctx context.Context, guestID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(1) FROM appearances WHERE guest_id = ?`, guestID)
}

func (r *AppearanceRepo) count(ctx context.Context, q string, id int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
