// Package repository contains data access logic separated from HTTP
// handlers. This file defines repository methods for venues. A venue
// represents a cinema location that can contain multiple rooms.
package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
    return &VenueRepo{db: db}
}

// Create inserts a new venue. On success the venue's ID is populated with
// the auto-generated value and a follow-up SELECT fills the timestamp
// fields so callers receive a fully populated record.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
    const qInsert = `INSERT INTO venues (name) VALUES (?)`
    res, err := r.db.ExecContext(ctx, qInsert, v.Name)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    v.ID = uint64(id)

    const qSelect = `SELECT name, is_active, created_at, updated_at FROM venues WHERE id = ?`
    return r.db.QueryRowContext(ctx, qSelect, v.ID).Scan(&v.Name, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID fetches a venue by its ID. It returns ErrVenueNotFound if no
// row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT id, name, is_active, created_at, updated_at FROM venues WHERE id = ?`
    var v model.Venue
    if err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrVenueNotFound
        }
        return nil, err
    }
    return &v, nil
}

// ListAll returns all venues ordered by id. It is used by public browse
// endpoints to present available venues to unauthenticated users.
func (r *VenueRepo) ListAll(ctx context.Context) ([]*model.Venue, error) {
    const q = `SELECT id, name, is_active, created_at, updated_at FROM venues ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.Venue
    for rows.Next() {
        v := new(model.Venue)
        if err := rows.Scan(&v.ID, &v.Name, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateName updates the venue name. It returns ErrVenueNotFound when no
// row is affected.
func (r *VenueRepo) UpdateName(ctx context.Context, id uint64, name string) error {
    const q = `UPDATE venues
               SET name = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, name, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        return nil
    }
    // Zero affected rows is either a missing venue or an unchanged name.
    const qExists = `SELECT 1 FROM venues WHERE id = ? LIMIT 1`
    var one int
    if err := r.db.QueryRowContext(ctx, qExists, id).Scan(&one); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrVenueNotFound
        }
        return err
    }
    return nil
}
