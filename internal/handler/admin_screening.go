// This file defines the admin scheduling API.  Creating or moving a
// screening always runs the full schedule validation; a conflicting slot
// is answered with 409 carrying the overlapping screenings and the next
// free start so the admin can re-plan without another probe.

package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/booking"
    "github.com/cinetick/cinema-ticketing/internal/repository"
)

// ScreeningHandler drives screening management through the booking
// engine's schedule validation.
type ScreeningHandler struct {
    Engine     *booking.Engine
    Screenings *repository.ScreeningRepo
    Rooms      *repository.RoomRepo
}

// NewScreeningHandler constructs a ScreeningHandler and panics on a nil
// dependency.
func NewScreeningHandler(engine *booking.Engine, screenings *repository.ScreeningRepo, rooms *repository.RoomRepo) *ScreeningHandler {
    if engine == nil || screenings == nil || rooms == nil {
        panic("nil dependency passed to NewScreeningHandler")
    }
    return &ScreeningHandler{Engine: engine, Screenings: screenings, Rooms: rooms}
}

// createScreeningRequest is the body of create and update requests.  On
// update, omitted fields keep their stored values.  DryRun validates the
// slot without persisting anything.
type createScreeningRequest struct {
    MovieID        uint64    `json:"movie_id"`
    RoomID         uint64    `json:"room_id"`
    VenueID        uint64    `json:"venue_id"`
    StartsAt       time.Time `json:"starts_at"`
    BasePriceCents uint32    `json:"base_price_cents"`
    DryRun         bool      `json:"dry_run"`
}

// CreateScreening handles POST /v1/screenings.
func (h *ScreeningHandler) CreateScreening(c echo.Context) error {
    ctx := c.Request().Context()
    var body createScreeningRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.MovieID == 0 || body.RoomID == 0 || body.StartsAt.IsZero() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, room_id and starts_at are required"})
    }
    if body.VenueID == 0 {
        // Resolve the venue from the room so callers may omit it.
        room, err := h.Rooms.GetByID(ctx, body.RoomID)
        if err != nil {
            if err == repository.ErrRoomNotFound {
                return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "INVALID_REFERENCE", "message": "room does not exist"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        body.VenueID = room.VenueID
    }

    s, err := h.Engine.ValidateScreening(ctx, booking.ScreeningRequest{
        MovieID:        body.MovieID,
        RoomID:         body.RoomID,
        VenueID:        body.VenueID,
        StartsAt:       body.StartsAt,
        BasePriceCents: body.BasePriceCents,
    })
    if err != nil {
        return domainJSON(c, err)
    }
    if body.DryRun {
        return c.JSON(http.StatusOK, echo.Map{"valid": true, "screening": s})
    }
    if err := h.Screenings.Create(ctx, s); err != nil {
        if repository.IsDupEntry(err) {
            // Lost a race on the (movie, room, starts_at) unique triple.
            return c.JSON(http.StatusConflict, echo.Map{
                "error":   "DUPLICATE_SCREENING",
                "message": "an identical screening already exists",
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create screening"})
    }
    return c.JSON(http.StatusCreated, s)
}

// updateScreeningRequest is the body of an update; nil fields are left
// unchanged.
type updateScreeningRequest struct {
    MovieID        *uint64    `json:"movie_id"`
    RoomID         *uint64    `json:"room_id"`
    StartsAt       *time.Time `json:"starts_at"`
    BasePriceCents *uint32    `json:"base_price_cents"`
}

// UpdateScreening handles PATCH /v1/screenings/:id.  The merged result is
// re-validated as a whole, excluding the screening itself from conflict
// detection.
func (h *ScreeningHandler) UpdateScreening(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body updateScreeningRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    existing, err := h.Screenings.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrScreeningNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    req := booking.ScreeningRequest{
        ExcludeID:      id,
        MovieID:        existing.MovieID,
        RoomID:         existing.RoomID,
        StartsAt:       existing.StartsAt,
        BasePriceCents: existing.BasePriceCents,
    }
    if body.MovieID != nil {
        req.MovieID = *body.MovieID
    }
    if body.RoomID != nil {
        req.RoomID = *body.RoomID
    }
    if body.StartsAt != nil {
        req.StartsAt = *body.StartsAt
    }
    if body.BasePriceCents != nil {
        req.BasePriceCents = *body.BasePriceCents
    }
    room, err := h.Rooms.GetByID(ctx, req.RoomID)
    if err != nil {
        if err == repository.ErrRoomNotFound {
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "INVALID_REFERENCE", "message": "room does not exist"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    req.VenueID = room.VenueID

    s, err := h.Engine.ValidateScreening(ctx, req)
    if err != nil {
        return domainJSON(c, err)
    }
    if err := h.Screenings.Update(ctx, s); err != nil {
        switch {
        case err == repository.ErrNoChange:
            // nothing to write
        case err == repository.ErrScreeningNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        case repository.IsDupEntry(err):
            return c.JSON(http.StatusConflict, echo.Map{
                "error":   "DUPLICATE_SCREENING",
                "message": "an identical screening already exists",
            })
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
        }
    }
    return c.JSON(http.StatusOK, s)
}

// CancelScreening handles DELETE /v1/screenings/:id.  Cancellation
// releases every pending booking of the screening; it is refused while
// paid tickets exist.
func (h *ScreeningHandler) CancelScreening(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Screenings.Cancel(c.Request().Context(), id); err != nil {
        switch err {
        case repository.ErrScreeningNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        case repository.ErrConflict:
            return c.JSON(http.StatusConflict, echo.Map{"error": "screening has paid tickets"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListRoomScreenings handles GET /v1/rooms/:id/screenings with optional
// RFC3339 from/to query bounds; the default window is the next 7 days.
func (h *ScreeningHandler) ListRoomScreenings(c echo.Context) error {
    ctx := c.Request().Context()
    roomID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
        if err == repository.ErrRoomNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    from := time.Now().UTC()
    to := from.Add(7 * 24 * time.Hour)
    if raw := c.QueryParam("from"); raw != "" {
        t, err := time.Parse(time.RFC3339, raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
        }
        from = t.UTC()
    }
    if raw := c.QueryParam("to"); raw != "" {
        t, err := time.Parse(time.RFC3339, raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
        }
        to = t.UTC()
    }
    if !to.After(from) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
    }
    screenings, err := h.Screenings.ListByRoomWindow(ctx, roomID, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicScreening, 0, len(screenings))
    for _, s := range screenings {
        out = append(out, toPublicScreening(s))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
