package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for movies. A movie's duration is the
// single source of truth for deriving screening end times.
type MovieRepo struct {
    db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
    return &MovieRepo{db: db}
}

// Create inserts a new movie and assigns the generated ID back to the
// struct. The inserted row is read back to populate DB-default fields.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
    const qInsert = `INSERT INTO movies (title, duration_min) VALUES (?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert, m.Title, m.DurationMin)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)

    const qSelect = `SELECT title, duration_min, is_active, created_at, updated_at FROM movies WHERE id = ?`
    return r.db.QueryRowContext(ctx, qSelect, m.ID).Scan(&m.Title, &m.DurationMin, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a movie by its ID. It returns ErrMovieNotFound if
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
    const q = `SELECT id, title, duration_min, is_active, created_at, updated_at FROM movies WHERE id = ?`
    var m model.Movie
    err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.DurationMin, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrMovieNotFound
        }
        return nil, err
    }
    return &m, nil
}

// ListActive returns all active movies ordered by title. Used by public
// browse endpoints.
func (r *MovieRepo) ListActive(ctx context.Context) ([]model.Movie, error) {
    const q = `SELECT id, title, duration_min, is_active, created_at, updated_at
               FROM movies
               WHERE is_active = 1
               ORDER BY title`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.Movie
    for rows.Next() {
        var m model.Movie
        if err := rows.Scan(&m.ID, &m.Title, &m.DurationMin, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update changes a movie's title, duration and active flag. It only
// performs the UPDATE when at least one field differs; otherwise it
// returns ErrNoChange. When the row doesn't exist, sql.ErrNoRows.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
    const q = `UPDATE movies
               SET title = ?, duration_min = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?
                 AND (title <> ? OR duration_min <> ? OR is_active <> ?)`
    res, err := r.db.ExecContext(ctx, q,
        m.Title, m.DurationMin, m.IsActive,
        m.ID,
        m.Title, m.DurationMin, m.IsActive,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        return nil
    }

    const qExists = `SELECT 1 FROM movies WHERE id = ? LIMIT 1`
    var one int
    if err := r.db.QueryRowContext(ctx, qExists, m.ID).Scan(&one); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return sql.ErrNoRows
        }
        return err
    }
    return ErrNoChange
}
