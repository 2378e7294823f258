// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrEpisodeNotFound is returned when an episode lookup or delete finds
// no row. Handlers translate it into an HTTP 404 response.
var ErrEpisodeNotFound = errors.New("episode not found")

// ErrGuestNotFound is returned when a guest lookup or delete finds no row.
var ErrGuestNotFound = errors.New("guest not found")

// ErrReferenceNotFound is returned when an appearance refers to an
// episode or guest that does not exist. Handlers translate it into an
// HTTP 400 response.
var ErrReferenceNotFound = errors.New("episode or guest not found")

// finishTx commits when *err is nil and rolls back otherwise. A failed
// commit is reported through *err.
func finishTx(tx *sql.Tx, err *error) {
	if *err != nil {
		_ = tx.Rollback()
		return
	}
	*err = tx.Commit()
}

// exists reports whether query returns a row for id.
func exists(ctx context.Context, tx *sql.Tx, query string, id int64) (bool, error) {
	var one int
	if err := tx.QueryRowContext(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
