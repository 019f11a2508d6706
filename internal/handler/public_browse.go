// This file defines the public browsing API.  These routes let
// unauthenticated users discover venues, movies and screenings and inspect
// seat availability.  Responses expose only safe fields; management
// timestamps and internal flags stay server-side.

package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/repository"
    "github.com/cinetick/cinema-ticketing/internal/seatmap"
)

// PublicHandler aggregates the read-side repositories for unauthenticated
// browsing.
type PublicHandler struct {
    Venues     *repository.VenueRepo
    Rooms      *repository.RoomRepo
    Movies     *repository.MovieRepo
    Screenings *repository.ScreeningRepo
    Seats      *repository.SeatRepo
    Bookings   *repository.BookingRepo
}

// NewPublicHandler constructs a PublicHandler and panics on a nil
// dependency.
func NewPublicHandler(venues *repository.VenueRepo, rooms *repository.RoomRepo, movies *repository.MovieRepo, screenings *repository.ScreeningRepo, seats *repository.SeatRepo, bookings *repository.BookingRepo) *PublicHandler {
    if venues == nil || rooms == nil || movies == nil || screenings == nil || seats == nil || bookings == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{
        Venues:     venues,
        Rooms:      rooms,
        Movies:     movies,
        Screenings: screenings,
        Seats:      seats,
        Bookings:   bookings,
    }
}

// publicVenue is a venue as exposed to unauthenticated clients.
type publicVenue struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
}

// publicRoom is a room as exposed to unauthenticated clients.
type publicRoom struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    SeatRows uint32 `json:"seat_rows"`
    SeatCols uint32 `json:"seat_cols"`
}

// publicMovie is a movie as exposed to unauthenticated clients.
type publicMovie struct {
    ID          uint64 `json:"id"`
    Title       string `json:"title"`
    DurationMin uint32 `json:"duration_min"`
}

// publicScreening is a screening in list and detail responses.
type publicScreening struct {
    ID             uint64    `json:"id"`
    MovieID        uint64    `json:"movie_id"`
    RoomID         uint64    `json:"room_id"`
    StartsAt       time.Time `json:"starts_at"`
    EndsAt         time.Time `json:"ends_at"`
    BasePriceCents uint32    `json:"base_price_cents"`
}

// publicSeat is one seat of a seat-map response.  State is present only on
// the per-screening variant.
type publicSeat struct {
    ID         uint64         `json:"id"`
    SeatNumber uint32         `json:"seat_number"`
    SeatType   model.SeatType `json:"seat_type"`
    IsActive   bool           `json:"is_active"`
    PartnerID  uint64         `json:"partner_id,omitempty"`
    State      seatmap.State  `json:"state,omitempty"`
}

// publicRow is one ordered row of a seat-map response.
type publicRow struct {
    Label string       `json:"label"`
    Seats []publicSeat `json:"seats"`
}

// ListVenues handles GET /v1/venues.
func (h *PublicHandler) ListVenues(c echo.Context) error {
    venues, err := h.Venues.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicVenue, 0, len(venues))
    for _, v := range venues {
        if !v.IsActive {
            continue
        }
        out = append(out, publicVenue{ID: v.ID, Name: v.Name})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListVenueRooms handles GET /v1/venues/:id/rooms.
func (h *PublicHandler) ListVenueRooms(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Venues.GetByID(ctx, id); err != nil {
        if err == repository.ErrVenueNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    rooms, err := h.Rooms.ListByVenue(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicRoom, 0, len(rooms))
    for _, r := range rooms {
        if !r.IsActive {
            continue
        }
        out = append(out, publicRoom{ID: r.ID, Name: r.Name, SeatRows: r.SeatRows, SeatCols: r.SeatCols})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListMovies handles GET /v1/movies and returns active catalog entries.
func (h *PublicHandler) ListMovies(c echo.Context) error {
    movies, err := h.Movies.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicMovie, 0, len(movies))
    for _, m := range movies {
        out = append(out, publicMovie{ID: m.ID, Title: m.Title, DurationMin: m.DurationMin})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListMovieScreenings handles GET /v1/movies/:id/screenings and returns the
// movie's upcoming scheduled screenings.
func (h *PublicHandler) ListMovieScreenings(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Movies.GetByID(ctx, id); err != nil {
        if err == repository.ErrMovieNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    screenings, err := h.Screenings.ListUpcomingByMovie(ctx, id, time.Now().UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicScreening, 0, len(screenings))
    for _, s := range screenings {
        out = append(out, toPublicScreening(s))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetScreening handles GET /v1/screenings/:id.
func (h *PublicHandler) GetScreening(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    s, err := h.Screenings.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrScreeningNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    resp := echo.Map{"screening": toPublicScreening(*s)}
    if m, err := h.Movies.GetByID(ctx, s.MovieID); err == nil {
        resp["movie"] = publicMovie{ID: m.ID, Title: m.Title, DurationMin: m.DurationMin}
    }
    if r, err := h.Rooms.GetByID(ctx, s.RoomID); err == nil {
        resp["room"] = publicRoom{ID: r.ID, Name: r.Name, SeatRows: r.SeatRows, SeatCols: r.SeatCols}
    }
    return c.JSON(http.StatusOK, resp)
}

// GetRoomSeatMap handles GET /v1/rooms/:id/seatmap and returns the static
// room layout without availability.
func (h *PublicHandler) GetRoomSeatMap(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Rooms.GetByID(ctx, id); err != nil {
        if err == repository.ErrRoomNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    seats, err := h.Seats.GetByRoom(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    m := seatmap.New(id, seats)
    return c.JSON(http.StatusOK, echo.Map{"room_id": id, "rows": toPublicRows(m, nil)})
}

// GetScreeningSeats handles GET /v1/screenings/:id/seats and returns the
// room layout with each seat's availability for the screening.  States are
// computed from live tickets at read time, so an expired hold shows FREE
// even before the background sweeper has released it.
func (h *PublicHandler) GetScreeningSeats(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    s, err := h.Screenings.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrScreeningNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    seats, err := h.Seats.GetByRoom(ctx, s.RoomID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    blocking, err := h.Bookings.BlockingSeatIDs(ctx, id, time.Now().UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    m := seatmap.New(s.RoomID, seats)
    return c.JSON(http.StatusOK, echo.Map{
        "screening_id": id,
        "room_id":      s.RoomID,
        "rows":         toPublicRows(m, blocking),
    })
}

func toPublicScreening(s model.Screening) publicScreening {
    return publicScreening{
        ID:             s.ID,
        MovieID:        s.MovieID,
        RoomID:         s.RoomID,
        StartsAt:       s.StartsAt,
        EndsAt:         s.EndsAt,
        BasePriceCents: s.BasePriceCents,
    }
}

// toPublicRows flattens a seat map into the response shape.  With a nil
// blocking set only the static layout is rendered; otherwise every seat
// carries its classified state.
func toPublicRows(m *seatmap.Map, blocking map[uint64]struct{}) []publicRow {
    rows := make([]publicRow, 0, len(m.Rows))
    for _, row := range m.Rows {
        pr := publicRow{Label: row.Label, Seats: make([]publicSeat, 0, len(row.Seats))}
        for _, s := range row.Seats {
            ps := publicSeat{
                ID:         s.ID,
                SeatNumber: s.SeatNumber,
                SeatType:   s.SeatType,
                IsActive:   s.IsActive,
                PartnerID:  s.PartnerID,
            }
            if blocking != nil {
                ps.State = m.Classify(s.ID, blocking, nil)
            }
            pr.Seats = append(pr.Seats, ps)
        }
        rows = append(rows, pr)
    }
    return rows
}
