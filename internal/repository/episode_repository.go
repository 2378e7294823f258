// Package repository contains data access logic separated from HTTP handlers.
// This file holds the episode queries, including the joined detail view and
// the transactional cascade delete.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/late-show-api/internal/model"
)

// EpisodeRepo encapsulates all database queries related to episodes.
type EpisodeRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewEpisodeRepo constructs an EpisodeRepo with the provided DB handle.
func NewEpisodeRepo(db *sql.DB) *EpisodeRepo {
	return &EpisodeRepo{db: db}
}

// Create inserts a new episode and populates its ID.
func (r *EpisodeRepo) Create(ctx context.Context, e *model.Episode) error {
	const q = "INSERT INTO episodes (date, number) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, q, e.Date, e.Number)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListAll returns every episode ordered by id. An empty table yields an
// empty, non-nil slice.
func (r *EpisodeRepo) ListAll(ctx context.Context) ([]*model.Episode, error) {
	const q = `SELECT id, date, number FROM episodes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Episode{}
	for rows.Next() {
		e := new(model.Episode)
		if err := rows.Scan(&e.ID, &e.Date, &e.Number); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single episode. It returns ErrEpisodeNotFound if no
// row matches.
func (r *EpisodeRepo) GetByID(ctx context.Context, id int64) (*model.Episode, error) {
	const q = `SELECT id, date, number FROM episodes WHERE id = ?`
	var e model.Episode
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Date, &e.Number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEpisodeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetWithAppearances loads an episode and its appearances, each joined with
// its guest, in a single query. The LEFT JOIN keeps episodes that have no
// appearances; their detail carries an empty slice.
func (r *EpisodeRepo) GetWithAppearances(ctx context.Context, id int64) (*model.EpisodeDetail, error) {
	const q = `SELECT e.id, e.date, e.number,
	                  a.id, a.rating, a.guest_id,
	                  g.name, g.occupation
	           FROM episodes e
	           LEFT JOIN appearances a ON a.episode_id = e.id
	           LEFT JOIN guests g ON g.id = a.guest_id
	           WHERE e.id = ?
	           ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var d *model.EpisodeDetail
	for rows.Next() {
		var (
			e          model.Episode
			appID      sql.NullInt64
			rating     sql.NullInt64
			guestID    sql.NullInt64
			name       sql.NullString
			occupation sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Number, &appID, &rating, &guestID, &name, &occupation); err != nil {
			return nil, err
		}
		if d == nil {
			d = &model.EpisodeDetail{Episode: e, Appearances: []model.EpisodeAppearance{}}
		}
		if !appID.Valid {
			continue // episode without appearances
		}
		d.Appearances = append(d.Appearances, model.EpisodeAppearance{
			Appearance: model.Appearance{
				ID:        appID.Int64,
				Rating:    int(rating.Int64),
				EpisodeID: e.ID,
				GuestID:   guestID.Int64,
			},
			Guest: model.Guest{ID: guestID.Int64, Name: name.String, Occupation: occupation.String},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrEpisodeNotFound
	}
	return d, nil
}

// Delete removes an episode and all of its appearances in one transaction
// and returns how many appearances went with it. If the episode does not
// exist, ErrEpisodeNotFound is returned and nothing is changed.
func (r *EpisodeRepo) Delete(ctx context.Context, id int64) (removed int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer finishTx(tx, &err)

	found, err := exists(ctx, tx, `SELECT 1 FROM episodes WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	if !found {
		err = ErrEpisodeNotFound
		return 0, err
	}
	// Explicit cascade so the result holds even where FK enforcement is off.
	res, err := tx.ExecContext(ctx, `DELETE FROM appearances WHERE episode_id = ?`, id)
	if err != nil {
		return 0, err
	}
	if removed, err = res.RowsAffected(); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM episodes WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return removed, nil
}
