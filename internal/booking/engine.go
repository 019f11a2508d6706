package booking

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/pricing"
    "github.com/cinetick/cinema-ticketing/internal/seatmap"
)

// Engine orchestrates the seat map, pricing and schedule rules against the
// injected catalog and store ports.  It owns no state beyond its
// configuration: all shared-resource invariants are enforced by the store.
type Engine struct {
    catalog  Catalog
    store    Store
    notifier Notifier
    holdTTL  time.Duration
    now      func() time.Time
}

// New constructs an Engine.  catalog and store must be non-nil; notifier
// may be nil to disable event publishing.
func New(catalog Catalog, store Store, notifier Notifier, holdTTL time.Duration) *Engine {
    if catalog == nil || store == nil {
        panic("nil port passed to booking.New")
    }
    if holdTTL <= 0 {
        holdTTL = 5 * time.Minute
    }
    return &Engine{
        catalog:  catalog,
        store:    store,
        notifier: notifier,
        holdTTL:  holdTTL,
        now:      func() time.Time { return time.Now().UTC() },
    }
}

// Hold is the result of a successful CreateHold.
type Hold struct {
    BookingID     uint64        `json:"booking_id"`
    BookingCode   string        `json:"booking_code"`
    TicketCodes   []string      `json:"ticket_codes"`
    Quote         pricing.Quote `json:"quote"`
    HoldExpiresAt time.Time     `json:"hold_expires_at"`
}

// Receipt is the result of a successful Finalize.
type Receipt struct {
    BookingID uint64              `json:"booking_id"`
    Status    model.BookingStatus `json:"status"`
}

// loadSelectionContext resolves the screening, seat map and blocking set a
// selection must be validated against.  The screening must exist and be
// SCHEDULED.
func (e *Engine) loadSelectionContext(ctx context.Context, screeningID uint64) (*model.Screening, *seatmap.Map, map[uint64]struct{}, error) {
    sc, err := e.catalog.GetScreening(ctx, screeningID)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            return nil, nil, nil, model.NewError(model.ErrInvalidReference, "screening %d does not exist", screeningID)
        }
        return nil, nil, nil, fmt.Errorf("load screening: %w", err)
    }
    if sc.Status != model.ScreeningScheduled {
        return nil, nil, nil, model.NewError(model.ErrInvalidReference, "screening %d is not open for booking", screeningID)
    }
    seats, err := e.catalog.GetRoomSeats(ctx, sc.RoomID)
    if err != nil {
        return nil, nil, nil, fmt.Errorf("load room seats: %w", err)
    }
    blocking, err := e.store.BlockingSeatIDs(ctx, screeningID, e.now())
    if err != nil {
        return nil, nil, nil, fmt.Errorf("load blocking seats: %w", err)
    }
    return sc, seatmap.New(sc.RoomID, seats), blocking, nil
}

// ValidateAndPriceSelection validates a proposed seat selection for a
// screening and returns the priced quote.  It is used both for the seat
// picker's incremental revalidation and as the first step of CreateHold.
func (e *Engine) ValidateAndPriceSelection(ctx context.Context, screeningID uint64, seatIDs []uint64) (*pricing.Quote, error) {
    sc, m, blocking, err := e.loadSelectionContext(ctx, screeningID)
    if err != nil {
        return nil, err
    }
    normalized, err := m.ValidateSelection(seatIDs, blocking)
    if err != nil {
        return nil, err
    }
    return pricing.PriceSelection(m, normalized, sc.BasePriceCents)
}

// CreateHold validates and prices the selection, then atomically creates
// one PENDING booking and one HELD ticket per seat, all sharing the same
// hold expiry.  A lost race on any seat rolls the whole attempt back and
// surfaces SEAT_ALREADY_HELD; no partial tickets can persist.
func (e *Engine) CreateHold(ctx context.Context, screeningID uint64, seatIDs []uint64, userID *uint64, note string) (*Hold, error) {
    sc, m, blocking, err := e.loadSelectionContext(ctx, screeningID)
    if err != nil {
        return nil, err
    }
    normalized, err := m.ValidateSelection(seatIDs, blocking)
    if err != nil {
        return nil, err
    }
    quote, err := pricing.PriceSelection(m, normalized, sc.BasePriceCents)
    if err != nil {
        return nil, err
    }

    now := e.now()
    expiresAt := now.Add(e.holdTTL)
    b := &model.Booking{
        Code:          uuid.NewString(),
        UserID:        userID,
        ScreeningID:   screeningID,
        Status:        model.BookingPending,
        TotalCents:    quote.TotalCents,
        HoldExpiresAt: &expiresAt,
        Note:          note,
    }
    tickets, codes, err := buildTickets(screeningID, quote, expiresAt)
    if err != nil {
        return nil, fmt.Errorf("generate ticket codes: %w", err)
    }

    if err := e.store.CreateBookingWithTickets(ctx, b, tickets); err != nil {
        if errors.Is(err, ErrSeatTaken) {
            return nil, model.NewError(model.ErrSeatAlreadyHeld, "another customer holds one of the requested seats")
        }
        return nil, fmt.Errorf("create hold: %w", err)
    }
    return &Hold{
        BookingID:     b.ID,
        BookingCode:   b.Code,
        TicketCodes:   codes,
        Quote:         *quote,
        HoldExpiresAt: expiresAt,
    }, nil
}

// buildTickets expands the priced lines into one HELD ticket per seat.  A
// couple-pair line is split across its two tickets so ticket prices always
// sum to the booking total; the odd cent, if any, lands on the first seat.
func buildTickets(screeningID uint64, quote *pricing.Quote, expiresAt time.Time) ([]model.Ticket, []string, error) {
    var tickets []model.Ticket
    var codes []string
    for _, line := range quote.Lines {
        prices := make([]uint32, len(line.SeatIDs))
        if n := uint32(len(line.SeatIDs)); n > 0 {
            each := line.PriceCents / n
            for i := range prices {
                prices[i] = each
            }
            prices[0] += line.PriceCents - each*n
        }
        for i, seatID := range line.SeatIDs {
            code, err := randomCode(8)
            if err != nil {
                return nil, nil, err
            }
            exp := expiresAt
            tickets = append(tickets, model.Ticket{
                ScreeningID:   screeningID,
                SeatID:        seatID,
                PriceCents:    prices[i],
                Status:        model.TicketHeld,
                HoldExpiresAt: &exp,
                Code:          code,
            })
            codes = append(codes, code)
        }
    }
    return tickets, codes, nil
}

// Finalize transitions a PENDING booking and all its tickets to PAID with
// the supplied payment details.  The transition is all-or-nothing: an
// expired hold leaves the booking PENDING and returns HOLD_EXPIRED so the
// caller can re-hold.
func (e *Engine) Finalize(ctx context.Context, bookingID uint64, method, reference string) (*Receipt, error) {
    b, err := e.store.GetBooking(ctx, bookingID)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            return nil, model.NewError(model.ErrBookingNotFound, "booking %d does not exist", bookingID)
        }
        return nil, fmt.Errorf("load booking: %w", err)
    }
    if b.Status != model.BookingPending {
        return nil, model.NewError(model.ErrAlreadyFinalized, "booking %d is already %s", bookingID, b.Status)
    }

    now := e.now()
    if err := e.store.FinalizeBooking(ctx, bookingID, method, reference, now); err != nil {
        switch {
        case errors.Is(err, ErrHoldLapsed):
            return nil, model.NewError(model.ErrHoldExpired, "hold on booking %d expired before payment", bookingID)
        case errors.Is(err, ErrNotPending):
            return nil, model.NewError(model.ErrAlreadyFinalized, "booking %d is already finalized", bookingID)
        case errors.Is(err, ErrNotFound):
            return nil, model.NewError(model.ErrBookingNotFound, "booking %d does not exist", bookingID)
        }
        return nil, fmt.Errorf("finalize booking: %w", err)
    }

    if e.notifier != nil {
        notice := PaidNotice{
            BookingID:   bookingID,
            BookingCode: b.Code,
            ScreeningID: b.ScreeningID,
            TotalCents:  b.TotalCents,
            PaymentRef:  reference,
            PaidAt:      now.Format(time.RFC3339),
        }
        if err := e.notifier.BookingPaid(ctx, notice); err != nil {
            log.Printf("booking: publish paid event for %d failed: %v", bookingID, err)
        }
    }
    return &Receipt{BookingID: bookingID, Status: model.BookingPaid}, nil
}

// Release cancels a PENDING booking, deleting its tickets and freeing the
// seats.  Releasing a booking that is already gone is a no-op; releasing a
// PAID booking fails with ALREADY_FINALIZED.
func (e *Engine) Release(ctx context.Context, bookingID uint64) error {
    err := e.store.ReleaseBooking(ctx, bookingID)
    switch {
    case err == nil, errors.Is(err, ErrNotFound):
        return nil
    case errors.Is(err, ErrNotPending):
        return model.NewError(model.ErrAlreadyFinalized, "booking %d is already finalized", bookingID)
    }
    return fmt.Errorf("release booking: %w", err)
}

// ExpirySweep releases every PENDING booking whose hold expiry has passed
// at the time of the sweep's own read.  It is safe to run concurrently
// with Finalize: ReleaseExpired re-checks the expiry inside the store, so
// a finalize that wins the race on a still-valid hold takes precedence.
// The sweep is idempotent and safe to retry indefinitely.
func (e *Engine) ExpirySweep(ctx context.Context) (int, error) {
    now := e.now()
    ids, err := e.store.ExpiredPendingBookings(ctx, now)
    if err != nil {
        return 0, fmt.Errorf("list expired bookings: %w", err)
    }
    released := 0
    for _, id := range ids {
        err := e.store.ReleaseExpired(ctx, id, now)
        switch {
        case err == nil:
            released++
        case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotPending):
            // already released or finalized since our read; skip
        default:
            return released, fmt.Errorf("release expired booking %d: %w", id, err)
        }
    }
    return released, nil
}

// PaymentResult is the external gateway's asynchronous confirmation for a
// booking.  The engine never waits on the gateway; this record arrives via
// the payment callback or the payment.results queue.
type PaymentResult struct {
    BookingID uint64 `json:"booking_id"`
    Success   bool   `json:"success"`
    Method    string `json:"method"`
    Reference string `json:"reference"`
}

// HandlePaymentResult turns a gateway confirmation into a finalize and a
// gateway failure into a release of the hold.
func (e *Engine) HandlePaymentResult(ctx context.Context, res PaymentResult) error {
    if !res.Success {
        return e.Release(ctx, res.BookingID)
    }
    method := res.Method
    if method == "" {
        method = "GATEWAY"
    }
    _, err := e.Finalize(ctx, res.BookingID, method, res.Reference)
    return err
}

// randomCode returns a hex string from n cryptographically random bytes.
// It is used for ticket redemption codes.
func randomCode(n int) (string, error) {
    b := make([]byte, n)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}
