// This file defines the admin catalog API: venues, rooms with one-time
// seat generation, per-seat type overrides and the movie catalog entries
// the scheduler references.  All routes require the OWNER role.

package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/repository"
    "github.com/cinetick/cinema-ticketing/internal/seatmap"
)

// Layout generation bounds. Row labels run A..Z then AA..; 80 rows of 60
// seats is far beyond any real auditorium.
const (
    maxSeatRows = 80
    maxSeatCols = 60
)

// AdminHandler bundles the repositories behind the management API.
type AdminHandler struct {
    Venues *repository.VenueRepo
    Rooms  *repository.RoomRepo
    Seats  *repository.SeatRepo
    Movies *repository.MovieRepo
}

// NewAdminHandler constructs an AdminHandler and panics on a nil
// dependency.
func NewAdminHandler(venues *repository.VenueRepo, rooms *repository.RoomRepo, seats *repository.SeatRepo, movies *repository.MovieRepo) *AdminHandler {
    if venues == nil || rooms == nil || seats == nil || movies == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Venues: venues, Rooms: rooms, Seats: seats, Movies: movies}
}

// CreateVenue handles POST /v1/venues.
func (h *AdminHandler) CreateVenue(c echo.Context) error {
    var body struct {
        Name string `json:"name"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    v := &model.Venue{Name: name, IsActive: true}
    if err := h.Venues.Create(c.Request().Context(), v); err != nil {
        if repository.IsDupEntry(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
    }
    return c.JSON(http.StatusCreated, v)
}

// UpdateVenue handles PATCH /v1/venues/:id and renames the venue.
func (h *AdminHandler) UpdateVenue(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Name string `json:"name"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if err := h.Venues.UpdateName(ctx, id, name); err != nil {
        if err == repository.ErrVenueNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
        }
        if repository.IsDupEntry(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    updated, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// createRoomRequest describes a new room and its generated layout.
// RowTypes optionally assigns a seat type to whole rows by label; rows not
// listed default to STANDARD.
type createRoomRequest struct {
    Name     string            `json:"name"`
    SeatRows uint32            `json:"seat_rows"`
    SeatCols uint32            `json:"seat_cols"`
    RowTypes map[string]string `json:"row_types"`
}

// CreateRoom handles POST /v1/venues/:id/rooms.  The seat grid is
// generated once here and is immutable afterwards; only per-seat type and
// active-flag tweaks remain possible.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
    ctx := c.Request().Context()
    venueID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body createRoomRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if body.SeatRows == 0 || body.SeatRows > maxSeatRows || body.SeatCols == 0 || body.SeatCols > maxSeatCols {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_rows and seat_cols must be within layout bounds"})
    }
    rowTypes := make(map[string]model.SeatType, len(body.RowTypes))
    for label, raw := range body.RowTypes {
        st := model.SeatType(strings.ToUpper(strings.TrimSpace(raw)))
        if !st.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat type " + raw})
        }
        rowTypes[strings.ToUpper(strings.TrimSpace(label))] = st
    }

    venue, err := h.Venues.GetByID(ctx, venueID)
    if err != nil {
        if err == repository.ErrVenueNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    room := &model.Room{
        VenueID:  venue.ID,
        Name:     name,
        SeatRows: body.SeatRows,
        SeatCols: body.SeatCols,
        IsActive: true,
    }
    if err := h.Rooms.Create(ctx, room); err != nil {
        if repository.IsDupEntry(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room name already exists in venue"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
    }
    if err := h.Seats.CreateBulk(ctx, generateSeats(room, rowTypes)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate seats"})
    }
    return c.JSON(http.StatusCreated, room)
}

// generateSeats expands a rows×cols grid into seat records.  Seats are
// numbered 1..cols within each row so COUPLE rows pair up odd/even
// neighbours naturally.
func generateSeats(room *model.Room, rowTypes map[string]model.SeatType) []model.Seat {
    seats := make([]model.Seat, 0, int(room.SeatRows)*int(room.SeatCols))
    for ri := 0; ri < int(room.SeatRows); ri++ {
        label := seatmap.IndexToRowLabel(ri)
        st, ok := rowTypes[label]
        if !ok {
            st = model.SeatStandard
        }
        for col := uint32(1); col <= room.SeatCols; col++ {
            seats = append(seats, model.Seat{
                RoomID:     room.ID,
                RowLabel:   label,
                SeatNumber: col,
                SeatType:   st,
            })
        }
    }
    return seats
}

// UpdateRoom handles PATCH /v1/rooms/:id for renames and the active flag.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Name     *string `json:"name"`
        IsActive *bool   `json:"is_active"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    room, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrRoomNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if body.Name != nil {
        name := strings.TrimSpace(*body.Name)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
        }
        room.Name = name
    }
    if body.IsActive != nil {
        room.IsActive = *body.IsActive
    }
    if err := h.Rooms.Update(ctx, room); err != nil {
        if repository.IsDupEntry(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room name already exists in venue"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /v1/rooms/:id.  A room can only be removed
// while nothing references it: no tickets on its seats and no screenings.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
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
    if err := h.Rooms.Delete(ctx, id); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room has screenings"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    if err := h.Seats.DeleteByRoom(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// UpdateSeat handles PATCH /v1/seats/:id and changes one seat's type or
// active flag.  Positions are immutable; only these two attributes may
// change after generation.
func (h *AdminHandler) UpdateSeat(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        SeatType *string `json:"seat_type"`
        IsActive *bool   `json:"is_active"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    seat, err := h.Seats.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrSeatNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if body.SeatType != nil {
        st := model.SeatType(strings.ToUpper(strings.TrimSpace(*body.SeatType)))
        if !st.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat type"})
        }
        seat.SeatType = st
    }
    if body.IsActive != nil {
        seat.IsActive = *body.IsActive
    }
    if err := h.Seats.UpdateType(ctx, id, seat.SeatType, seat.IsActive); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, seat)
}

// CreateMovie handles POST /v1/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
    var body struct {
        Title       string `json:"title"`
        DurationMin uint32 `json:"duration_min"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    title := strings.TrimSpace(body.Title)
    if title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    if body.DurationMin == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
    }
    m := &model.Movie{Title: title, DurationMin: body.DurationMin, IsActive: true}
    if err := h.Movies.Create(c.Request().Context(), m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
    }
    return c.JSON(http.StatusCreated, m)
}

// UpdateMovie handles PATCH /v1/movies/:id.  Duration changes affect only
// future validations; already scheduled screenings keep their derived end
// times.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Title       *string `json:"title"`
        DurationMin *uint32 `json:"duration_min"`
        IsActive    *bool   `json:"is_active"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrMovieNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if body.Title != nil {
        title := strings.TrimSpace(*body.Title)
        if title == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
        }
        m.Title = title
    }
    if body.DurationMin != nil {
        if *body.DurationMin == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
        }
        m.DurationMin = *body.DurationMin
    }
    if body.IsActive != nil {
        m.IsActive = *body.IsActive
    }
    if err := h.Movies.Update(ctx, m); err != nil && err != repository.ErrNoChange {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, m)
}
