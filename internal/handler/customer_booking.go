// This file defines the customer checkout API: quoting a seat selection,
// holding it, finalizing payment and cancelling.  All routes require an
// authenticated CUSTOMER and operate only on the caller's own bookings.

package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/booking"
    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/repository"
)

// BookingHandler drives the checkout flow through the booking engine.
type BookingHandler struct {
    Engine   *booking.Engine
    Bookings *repository.BookingRepo
    Seats    *repository.SeatRepo
}

// NewBookingHandler constructs a BookingHandler and panics on a nil
// dependency.
func NewBookingHandler(engine *booking.Engine, bookings *repository.BookingRepo, seats *repository.SeatRepo) *BookingHandler {
    if engine == nil || bookings == nil || seats == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: engine, Bookings: bookings, Seats: seats}
}

// selectionRequest is the body of quote and hold requests.
type selectionRequest struct {
    SeatIDs []uint64 `json:"seat_ids"`
    Note    string   `json:"note"`
}

// QuoteSelection handles POST /v1/screenings/:id/quote.  It validates the
// selection against the live seat map and returns the priced quote without
// reserving anything.
func (h *BookingHandler) QuoteSelection(c echo.Context) error {
    screeningID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body selectionRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(body.SeatIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
    }
    quote, err := h.Engine.ValidateAndPriceSelection(c.Request().Context(), screeningID, body.SeatIDs)
    if err != nil {
        return domainJSON(c, err)
    }
    return c.JSON(http.StatusOK, quote)
}

// CreateHold handles POST /v1/screenings/:id/hold.  On success the caller
// owns a PENDING booking with one HELD ticket per seat, all expiring
// together.
func (h *BookingHandler) CreateHold(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    screeningID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body selectionRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(body.SeatIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
    }
    hold, err := h.Engine.CreateHold(c.Request().Context(), screeningID, body.SeatIDs, &userID, body.Note)
    if err != nil {
        return domainJSON(c, err)
    }
    return c.JSON(http.StatusCreated, hold)
}

// finalizeRequest is the body of a finalize request.
type finalizeRequest struct {
    Method    string `json:"method"`
    Reference string `json:"reference"`
}

// FinalizeBooking handles POST /v1/bookings/:id/finalize.  It transitions
// the caller's pending booking to PAID; an expired hold is reported as
// 410 so the client can restart seat selection.
func (h *BookingHandler) FinalizeBooking(c echo.Context) error {
    bookingID, ok := h.authorizeBooking(c)
    if !ok {
        return nil // response already written
    }
    var body finalizeRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Method == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "method is required"})
    }
    receipt, err := h.Engine.Finalize(c.Request().Context(), bookingID, body.Method, body.Reference)
    if err != nil {
        return domainJSON(c, err)
    }
    return c.JSON(http.StatusOK, receipt)
}

// CancelBooking handles DELETE /v1/bookings/:id.  Cancelling a pending
// booking releases its seats immediately; cancelling twice is a no-op.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    bookingID, ok := h.authorizeBooking(c)
    if !ok {
        return nil
    }
    if err := h.Engine.Release(c.Request().Context(), bookingID); err != nil {
        return domainJSON(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ticketView is one seat line of a booking detail response.
type ticketView struct {
    ID         uint64             `json:"id"`
    SeatID     uint64             `json:"seat_id"`
    RowLabel   string             `json:"row_label"`
    SeatNumber uint32             `json:"seat_number"`
    SeatType   model.SeatType     `json:"seat_type"`
    PriceCents uint32             `json:"price_cents"`
    Status     model.TicketStatus `json:"status"`
    Code       string             `json:"code"`
    CheckedIn  *time.Time         `json:"checked_in_at,omitempty"`
}

// bookingView is the booking detail response.
type bookingView struct {
    ID            uint64              `json:"id"`
    Code          string              `json:"code"`
    ScreeningID   uint64              `json:"screening_id"`
    Status        model.BookingStatus `json:"status"`
    TotalCents    uint32              `json:"total_cents"`
    HoldExpiresAt *time.Time          `json:"hold_expires_at,omitempty"`
    Note          string              `json:"note,omitempty"`
    Tickets       []ticketView        `json:"tickets"`
}

// GetBooking handles GET /v1/bookings/:id and returns the caller's booking
// with its per-seat tickets.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    bookingID, ok := h.authorizeBooking(c)
    if !ok {
        return nil
    }
    ctx := c.Request().Context()
    b, err := h.Bookings.GetBooking(ctx, bookingID)
    if err != nil {
        // authorizeBooking saw it a moment ago; treat a vanished row as 404
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    tickets, err := h.Bookings.GetTickets(ctx, bookingID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    view := bookingView{
        ID:            b.ID,
        Code:          b.Code,
        ScreeningID:   b.ScreeningID,
        Status:        b.Status,
        TotalCents:    b.TotalCents,
        HoldExpiresAt: b.HoldExpiresAt,
        Note:          b.Note,
        Tickets:       make([]ticketView, 0, len(tickets)),
    }
    for _, t := range tickets {
        tv := ticketView{
            ID:         t.ID,
            SeatID:     t.SeatID,
            PriceCents: t.PriceCents,
            Status:     t.Status,
            Code:       t.Code,
            CheckedIn:  t.CheckedInAt,
        }
        if seat, err := h.Seats.GetByID(ctx, t.SeatID); err == nil {
            tv.RowLabel = seat.RowLabel
            tv.SeatNumber = seat.SeatNumber
            tv.SeatType = seat.SeatType
        }
        view.Tickets = append(view.Tickets, tv)
    }
    return c.JSON(http.StatusOK, view)
}

// authorizeBooking parses the booking ID and verifies the caller owns the
// booking.  On failure it writes the response itself and returns ok=false.
// A foreign booking is reported as 404 rather than 403 so booking IDs
// cannot be probed.
func (h *BookingHandler) authorizeBooking(c echo.Context) (uint64, bool) {
    userID, err := getUserID(c)
    if err != nil {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return 0, false
    }
    bookingID, ok := paramID(c, "id")
    if !ok {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
        return 0, false
    }
    b, err := h.Bookings.GetBooking(c.Request().Context(), bookingID)
    if err != nil {
        _ = c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        return 0, false
    }
    if b.UserID == nil || *b.UserID != userID {
        _ = c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        return 0, false
    }
    return bookingID, true
}
