package booking

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/schedule"
)

// ScreeningRequest is an admin's proposed screening.  ExcludeID is zero
// for a new screening and set to the edited screening's ID on an edit, so
// a screening never conflicts with itself.
type ScreeningRequest struct {
    ExcludeID      uint64    `json:"-"`
    MovieID        uint64    `json:"movie_id"`
    RoomID         uint64    `json:"room_id"`
    VenueID        uint64    `json:"venue_id"`
    StartsAt       time.Time `json:"starts_at"`
    BasePriceCents uint32    `json:"base_price_cents"`
}

// ValidateScreening resolves the request against the catalog, derives the
// end time from the movie duration and runs the full schedule validation.
// On success it returns the screening ready to persist; the caller decides
// whether to store it or just report the dry-run result.
func (e *Engine) ValidateScreening(ctx context.Context, req ScreeningRequest) (*model.Screening, error) {
    movie, err := e.catalog.GetMovie(ctx, req.MovieID)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            return nil, model.NewError(model.ErrInvalidReference, "movie %d does not exist", req.MovieID)
        }
        return nil, fmt.Errorf("load movie: %w", err)
    }
    start := req.StartsAt.UTC()
    end, err := schedule.DeriveEndTime(movie, start)
    if err != nil {
        return nil, err
    }

    room, err := e.catalog.GetRoom(ctx, req.RoomID)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            return nil, model.NewError(model.ErrInvalidReference, "room %d does not exist", req.RoomID)
        }
        return nil, fmt.Errorf("load room: %w", err)
    }

    // Fetch every screening whose buffered window could touch ours.  The
    // window is widened once on each side so the validator sees all
    // potential conflicts.
    from := start.Add(-schedule.Buffer - 24*time.Hour)
    to := end.Add(schedule.Buffer + 24*time.Hour)
    existing, err := e.catalog.GetRoomScreenings(ctx, req.RoomID, from, to)
    if err != nil {
        return nil, fmt.Errorf("load room screenings: %w", err)
    }

    cand := schedule.Candidate{
        ExcludeID: req.ExcludeID,
        MovieID:   req.MovieID,
        RoomID:    req.RoomID,
        VenueID:   req.VenueID,
        StartsAt:  start,
        EndsAt:    end,
    }
    if err := schedule.Validate(cand, room, existing); err != nil {
        return nil, err
    }

    return &model.Screening{
        ID:             req.ExcludeID,
        MovieID:        req.MovieID,
        RoomID:         req.RoomID,
        StartsAt:       start,
        EndsAt:         end,
        BasePriceCents: req.BasePriceCents,
        Status:         model.ScreeningScheduled,
    }, nil
}
