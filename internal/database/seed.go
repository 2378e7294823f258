package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	EpisodeIDs    []int64
	GuestIDs      []int64
	AppearanceIDs []int64
}

var (
	seedEpisodes = []struct {
		date   string
		number int
	}{
		{"1/11/25", 1},
		{"1/12/25", 2},
	}
	seedGuests = []struct {
		name, occupation string
	}{
		{"Makokha Big", "actor"},
		{"Papa Willie", "Comedian"},
		{"Sue Mdogo", "television actress"},
	}
	// indexes into seedEpisodes / seedGuests
	seedAppearances = []struct {
		rating, episode, guest int
	}{
		{4, 0, 0},
		{5, 1, 2},
	}
)

// Seed deletes all existing rows and inserts the sample line-up.  The whole
// reset runs in one transaction.
func Seed(ctx context.Context, db *sql.DB) (res SeedResult, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, table := range []string{"appearances", "episodes", "guests"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return res, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, e := range seedEpisodes {
		id, insErr := insert(ctx, tx, "INSERT INTO episodes (date, number) VALUES (?, ?)", e.date, e.number)
		if insErr != nil {
			return res, fmt.Errorf("insert episode: %w", insErr)
		}
		res.EpisodeIDs = append(res.EpisodeIDs, id)
	}
	for _, g := range seedGuests {
		id, insErr := insert(ctx, tx, "INSERT INTO guests (name, occupation) VALUES (?, ?)", g.name, g.occupation)
		if insErr != nil {
			return res, fmt.Errorf("insert guest: %w", insErr)
		}
		res.GuestIDs = append(res.GuestIDs, id)
	}
	for _, a := range seedAppearances {
		id, insErr := insert(ctx, tx, "INSERT INTO appearances (rating, episode_id, guest_id) VALUES (?, ?, ?)",
			a.rating, res.EpisodeIDs[a.episode], res.GuestIDs[a.guest])
		if insErr != nil {
			return res, fmt.Errorf("insert appearance: %w", insErr)
		}
		res.AppearanceIDs = append(res.AppearanceIDs, id)
	}
	return res, nil
}

func insert(ctx context.Context, tx *sql.Tx, q string, args ...any) (int64, error) {
	r, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return r.LastInsertId()
}
