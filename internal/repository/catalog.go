package repository

import (
    "context"
    "errors"
    "time"

    "github.com/cinetick/cinema-ticketing/internal/booking"
    "github.com/cinetick/cinema-ticketing/internal/model"
)

// Catalog bundles the read-side repositories behind the booking engine's
// Catalog port. It translates per-entity not-found sentinels into the
// engine's booking.ErrNotFound so the engine stays ignorant of the
// storage layer's error vocabulary.
type Catalog struct {
    movies     *MovieRepo
    rooms      *RoomRepo
    seats      *SeatRepo
    screenings *ScreeningRepo
}

// NewCatalog constructs a Catalog over the given repositories.
func NewCatalog(movies *MovieRepo, rooms *RoomRepo, seats *SeatRepo, screenings *ScreeningRepo) *Catalog {
    return &Catalog{movies: movies, rooms: rooms, seats: seats, screenings: screenings}
}

func (c *Catalog) GetScreening(ctx context.Context, id uint64) (*model.Screening, error) {
    s, err := c.screenings.GetByID(ctx, id)
    if errors.Is(err, ErrScreeningNotFound) {
        return nil, booking.ErrNotFound
    }
    return s, err
}

func (c *Catalog) GetMovie(ctx context.Context, id uint64) (*model.Movie, error) {
    m, err := c.movies.GetByID(ctx, id)
    if errors.Is(err, ErrMovieNotFound) {
        return nil, booking.ErrNotFound
    }
    return m, err
}

func (c *Catalog) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
    r, err := c.rooms.GetByID(ctx, id)
    if errors.Is(err, ErrRoomNotFound) {
        return nil, booking.ErrNotFound
    }
    return r, err
}

func (c *Catalog) GetRoomSeats(ctx context.Context, roomID uint64) ([]model.Seat, error) {
    return c.seats.GetByRoom(ctx, roomID)
}

func (c *Catalog) GetRoomScreenings(ctx context.Context, roomID uint64, from, to time.Time) ([]model.Screening, error) {
    return c.screenings.ListByRoomWindow(ctx, roomID, from, to)
}
