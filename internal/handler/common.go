// Package handler exposes the HTTP surface of the reservation and
// scheduling engine: public browsing, customer checkout, admin scheduling
// and the payment gateway callback.  Handlers translate between JSON
// request shapes and the engine's domain types; every recoverable domain
// error is rendered with its machine-readable code and payload so clients
// can re-prompt without a second round trip.
package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// getUserID extracts the authenticated user's ID from the context, where
// the JWT middleware stored it as a string claim.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil
}

// conflictView is the compact screening shape embedded in schedule-conflict
// responses.
type conflictView struct {
    ID       uint64    `json:"id"`
    MovieID  uint64    `json:"movie_id"`
    StartsAt time.Time `json:"starts_at"`
    EndsAt   time.Time `json:"ends_at"`
}

// kindStatus maps a domain error kind to its HTTP status.
func kindStatus(kind model.ErrorKind) int {
    switch kind {
    case model.ErrBookingNotFound:
        return http.StatusNotFound
    case model.ErrScheduleConflict, model.ErrDuplicateScreening,
        model.ErrSeatAlreadyHeld, model.ErrAlreadyFinalized:
        return http.StatusConflict
    case model.ErrHoldExpired:
        return http.StatusGone
    }
    // ROOM_INACTIVE, ROOM_NOT_IN_VENUE, INVALID_REFERENCE and the
    // seat-selection rules are all problems with the submitted entity.
    return http.StatusUnprocessableEntity
}

// domainJSON renders err as a JSON error response.  Domain errors carry
// their kind and recovery payload; anything else is an infrastructure
// failure and is logged and hidden behind a 500.
func domainJSON(c echo.Context, err error) error {
    de, ok := model.AsError(err)
    if !ok {
        c.Logger().Errorf("internal error: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    body := echo.Map{
        "error":   string(de.Kind),
        "message": de.Message,
    }
    if len(de.Conflicts) > 0 {
        views := make([]conflictView, 0, len(de.Conflicts))
        for _, s := range de.Conflicts {
            views = append(views, conflictView{ID: s.ID, MovieID: s.MovieID, StartsAt: s.StartsAt, EndsAt: s.EndsAt})
        }
        body["conflicts"] = views
    }
    if de.SuggestedStart != nil {
        body["suggested_start"] = de.SuggestedStart
    }
    if de.RowLabel != "" {
        body["row_label"] = de.RowLabel
        body["seat_number"] = de.SeatNumber
    }
    if len(de.SeatIDs) > 0 {
        body["seat_ids"] = de.SeatIDs
    }
    return c.JSON(kindStatus(de.Kind), body)
}
