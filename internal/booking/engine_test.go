package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// fakeClock is a settable clock shared by the engine and the store so
// expiry behaviour can be driven deterministically.
type fakeClock struct {
    t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func seat(id, roomID uint64, row string, num uint32, t model.SeatType) model.Seat {
    return model.Seat{ID: id, RoomID: roomID, RowLabel: row, SeatNumber: num, SeatType: t, IsActive: true}
}

// fixture: room 1 in venue 1 with row A (four STANDARD seats) and row B
// (one COUPLE pair), showing movie 1 at screening 10.
func newFixture(t *testing.T) (*Engine, *memCatalog, *memStore, *memNotifier, *fakeClock) {
    t.Helper()
    clock := &fakeClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}

    cat := newMemCatalog()
    cat.movies[1] = model.Movie{ID: 1, Title: "Solaris", DurationMin: 120, IsActive: true}
    cat.rooms[1] = model.Room{ID: 1, VenueID: 1, Name: "Room 1", SeatRows: 2, SeatCols: 4, IsActive: true}
    cat.seats[1] = []model.Seat{
        seat(101, 1, "A", 1, model.SeatStandard),
        seat(102, 1, "A", 2, model.SeatStandard),
        seat(103, 1, "A", 3, model.SeatStandard),
        seat(104, 1, "A", 4, model.SeatStandard),
        seat(201, 1, "B", 1, model.SeatCouple),
        seat(202, 1, "B", 2, model.SeatCouple),
    }
    cat.screenings[10] = model.Screening{
        ID: 10, MovieID: 1, RoomID: 1,
        StartsAt:       clock.t.Add(2 * time.Hour),
        EndsAt:         clock.t.Add(4 * time.Hour),
        BasePriceCents: 1000,
        Status:         model.ScreeningScheduled,
    }

    store := newMemStore()
    store.now = clock.Now
    notifier := &memNotifier{}

    eng := New(cat, store, notifier, 5*time.Minute)
    eng.now = clock.Now
    return eng, cat, store, notifier, clock
}

func TestCreateHoldBlocksSeats(t *testing.T) {
    eng, _, store, _, clock := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)
    assert.NotZero(t, hold.BookingID)
    assert.NotEmpty(t, hold.BookingCode)
    assert.Len(t, hold.TicketCodes, 2)
    assert.Equal(t, uint32(2000), hold.Quote.TotalCents)
    assert.Equal(t, clock.Now().Add(5*time.Minute), hold.HoldExpiresAt)

    blocking, err := store.BlockingSeatIDs(ctx, 10, clock.Now())
    require.NoError(t, err)
    assert.Contains(t, blocking, uint64(103))
    assert.Contains(t, blocking, uint64(104))

    // a second customer contesting a held seat is rejected atomically
    _, err = eng.CreateHold(ctx, 10, []uint64{103}, nil, "")
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrSeatAlreadyHeld, kind)
}

func TestCreateHoldCouplePair(t *testing.T) {
    eng, _, store, _, _ := newFixture(t)
    ctx := context.Background()

    _, err := eng.CreateHold(ctx, 10, []uint64{201}, nil, "")
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrIncompleteCoupleSeat, kind)

    hold, err := eng.CreateHold(ctx, 10, []uint64{201, 202}, nil, "")
    require.NoError(t, err)
    assert.Equal(t, uint32(3000), hold.Quote.TotalCents)

    tickets, err := store.GetTickets(ctx, hold.BookingID)
    require.NoError(t, err)
    require.Len(t, tickets, 2)
    assert.Equal(t, uint32(1500), tickets[0].PriceCents)
    assert.Equal(t, uint32(1500), tickets[1].PriceCents)
}

func TestCreateHoldUnknownScreening(t *testing.T) {
    eng, _, _, _, _ := newFixture(t)

    _, err := eng.CreateHold(context.Background(), 99, []uint64{101}, nil, "")
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrInvalidReference, kind)
}

func TestFinalizePublishesAndIsTerminal(t *testing.T) {
    eng, _, store, notifier, _ := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)

    receipt, err := eng.Finalize(ctx, hold.BookingID, "CARD", "pay_abc")
    require.NoError(t, err)
    assert.Equal(t, model.BookingPaid, receipt.Status)

    b, err := store.GetBooking(ctx, hold.BookingID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingPaid, b.Status)
    require.NotNil(t, b.PaymentRef)
    assert.Equal(t, "pay_abc", *b.PaymentRef)
    assert.Nil(t, b.HoldExpiresAt)

    require.Len(t, notifier.notices, 1)
    assert.Equal(t, hold.BookingID, notifier.notices[0].BookingID)
    assert.Equal(t, uint32(2000), notifier.notices[0].TotalCents)

    _, err = eng.Finalize(ctx, hold.BookingID, "CARD", "pay_abc")
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrAlreadyFinalized, kind)
}

func TestFinalizeAfterHoldLapses(t *testing.T) {
    eng, _, _, notifier, clock := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)

    clock.Advance(6 * time.Minute)

    _, err = eng.Finalize(ctx, hold.BookingID, "CARD", "pay_late")
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrHoldExpired, kind)
    assert.Empty(t, notifier.notices)
}

func TestExpirySweepReleasesLapsedHolds(t *testing.T) {
    eng, _, store, _, clock := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)

    released, err := eng.ExpirySweep(ctx)
    require.NoError(t, err)
    assert.Zero(t, released, "live holds must survive the sweep")

    clock.Advance(6 * time.Minute)

    released, err = eng.ExpirySweep(ctx)
    require.NoError(t, err)
    assert.Equal(t, 1, released)

    b, err := store.GetBooking(ctx, hold.BookingID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, b.Status)

    // seats are free again for the next customer
    _, err = eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)
}

func TestSweepNeverTouchesPaidBookings(t *testing.T) {
    eng, _, store, _, clock := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)
    _, err = eng.Finalize(ctx, hold.BookingID, "CARD", "pay_abc")
    require.NoError(t, err)

    clock.Advance(time.Hour)

    released, err := eng.ExpirySweep(ctx)
    require.NoError(t, err)
    assert.Zero(t, released)

    blocking, err := store.BlockingSeatIDs(ctx, 10, clock.Now())
    require.NoError(t, err)
    assert.Contains(t, blocking, uint64(103), "paid seats block forever")
}

func TestReleaseIsIdempotent(t *testing.T) {
    eng, _, store, _, _ := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)

    require.NoError(t, eng.Release(ctx, hold.BookingID))
    require.NoError(t, eng.Release(ctx, hold.BookingID))
    require.NoError(t, eng.Release(ctx, 424242), "unknown booking release is a no-op")

    b, err := store.GetBooking(ctx, hold.BookingID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, b.Status)
}

func TestReleasePaidBookingFails(t *testing.T) {
    eng, _, _, _, _ := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)
    _, err = eng.Finalize(ctx, hold.BookingID, "CARD", "pay_abc")
    require.NoError(t, err)

    err = eng.Release(ctx, hold.BookingID)
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrAlreadyFinalized, kind)
}

func TestHandlePaymentResult(t *testing.T) {
    eng, _, store, _, _ := newFixture(t)
    ctx := context.Background()

    hold, err := eng.CreateHold(ctx, 10, []uint64{103, 104}, nil, "")
    require.NoError(t, err)
    require.NoError(t, eng.HandlePaymentResult(ctx, PaymentResult{
        BookingID: hold.BookingID, Success: true, Method: "CARD", Reference: "pay_ok",
    }))
    b, err := store.GetBooking(ctx, hold.BookingID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingPaid, b.Status)

    hold2, err := eng.CreateHold(ctx, 10, []uint64{201, 202}, nil, "")
    require.NoError(t, err)
    require.NoError(t, eng.HandlePaymentResult(ctx, PaymentResult{
        BookingID: hold2.BookingID, Success: false,
    }))
    b2, err := store.GetBooking(ctx, hold2.BookingID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, b2.Status)
}

func TestValidateAndPriceSelection(t *testing.T) {
    eng, _, _, _, _ := newFixture(t)
    ctx := context.Background()

    quote, err := eng.ValidateAndPriceSelection(ctx, 10, []uint64{103, 104})
    require.NoError(t, err)
    assert.Equal(t, uint32(2000), quote.TotalCents)

    // an isolated single free seat between taken positions is rejected
    _, err = eng.ValidateAndPriceSelection(ctx, 10, []uint64{101, 103})
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrIsolatedSeatGap, kind)
}

func TestValidateScreening(t *testing.T) {
    eng, cat, _, _, _ := newFixture(t)
    ctx := context.Background()

    day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
    cat.screenings[20] = model.Screening{
        ID: 20, MovieID: 1, RoomID: 1,
        StartsAt: day.Add(18 * time.Hour), // 18:00-20:00
        EndsAt:   day.Add(20 * time.Hour),
        Status:   model.ScreeningScheduled,
    }

    t.Run("inside buffer conflicts with suggestion", func(t *testing.T) {
        _, err := eng.ValidateScreening(ctx, ScreeningRequest{
            MovieID: 1, RoomID: 1, VenueID: 1,
            StartsAt: day.Add(20*time.Hour + 29*time.Minute),
        })
        de, ok := model.AsError(err)
        require.True(t, ok)
        assert.Equal(t, model.ErrScheduleConflict, de.Kind)
        require.Len(t, de.Conflicts, 1)
        assert.Equal(t, uint64(20), de.Conflicts[0].ID)
        require.NotNil(t, de.SuggestedStart)
        assert.Equal(t, day.Add(20*time.Hour+30*time.Minute), *de.SuggestedStart)
    })

    t.Run("at buffer boundary is accepted", func(t *testing.T) {
        sc, err := eng.ValidateScreening(ctx, ScreeningRequest{
            MovieID: 1, RoomID: 1, VenueID: 1,
            StartsAt:       day.Add(20*time.Hour + 30*time.Minute),
            BasePriceCents: 1000,
        })
        require.NoError(t, err)
        assert.Equal(t, day.Add(22*time.Hour+30*time.Minute), sc.EndsAt)
        assert.Equal(t, model.ScreeningScheduled, sc.Status)
    })

    t.Run("exact duplicate triple", func(t *testing.T) {
        _, err := eng.ValidateScreening(ctx, ScreeningRequest{
            MovieID: 1, RoomID: 1, VenueID: 1,
            StartsAt: day.Add(18 * time.Hour),
        })
        kind, ok := model.KindOf(err)
        require.True(t, ok)
        assert.Equal(t, model.ErrDuplicateScreening, kind)
    })

    t.Run("edit excludes itself", func(t *testing.T) {
        _, err := eng.ValidateScreening(ctx, ScreeningRequest{
            ExcludeID: 20, MovieID: 1, RoomID: 1, VenueID: 1,
            StartsAt: day.Add(18 * time.Hour),
        })
        require.NoError(t, err)
    })

    t.Run("room in wrong venue", func(t *testing.T) {
        _, err := eng.ValidateScreening(ctx, ScreeningRequest{
            MovieID: 1, RoomID: 1, VenueID: 7,
            StartsAt: day.Add(9 * time.Hour),
        })
        kind, ok := model.KindOf(err)
        require.True(t, ok)
        assert.Equal(t, model.ErrRoomNotInVenue, kind)
    })

    t.Run("unknown movie", func(t *testing.T) {
        _, err := eng.ValidateScreening(ctx, ScreeningRequest{
            MovieID: 99, RoomID: 1, VenueID: 1,
            StartsAt: day.Add(9 * time.Hour),
        })
        kind, ok := model.KindOf(err)
        require.True(t, ok)
        assert.Equal(t, model.ErrInvalidReference, kind)
    })
}
