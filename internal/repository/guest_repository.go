package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/late-show-api/internal/model"
)

// GuestRepo provides methods to create, list, fetch and delete guests.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo constructs a GuestRepo with the given DB handle.
func NewGuestRepo(db *sql.DB) *GuestRepo {
	return &GuestRepo{db: db}
}

// Create inserts a new guest and populates its ID.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	const q = "INSERT INTO guests (name, occupation) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, q, g.Name, g.Occupation)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

// ListAll returns all guests ordered by id.
func (r *GuestRepo) ListAll(ctx context.Context) ([]*model.Guest, error) {
	const q = `SELECT id, name, occupation FROM guests ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Guest{}
	for rows.Next() {
		g := &model.Guest{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Occupation); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a guest by its ID. It returns ErrGuestNotFound when no
// row is found.
func (r *GuestRepo) GetByID(ctx context.Context, id int64) (*model.Guest, error) {
	const q = `SELECT id, name, occupation FROM guests WHERE id = ?`
	var g model.Guest
	err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.Occupation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Delete removes a guest and every appearance they made, returning the
// number of appearances removed. Episodes and other guests are untouched.
func (r *GuestRepo) Delete(ctx context.Context, id int64) (removed int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer finishTx(tx, &err)

	found, err := exists(ctx, tx, `SELECT 1 FROM guests WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	if !found {
		err = ErrGuestNotFound
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM appearances WHERE guest_id = ?`, id)
	if err != nil {
		return 0, err
	}
	if removed, err = res.RowsAffected(); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return removed, nil
}
