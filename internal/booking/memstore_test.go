package booking

import (
    "context"
    "sync"
    "time"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// memCatalog is an in-memory Catalog for tests.
type memCatalog struct {
    screenings map[uint64]model.Screening
    movies     map[uint64]model.Movie
    rooms      map[uint64]model.Room
    seats      map[uint64][]model.Seat // by room ID
}

func newMemCatalog() *memCatalog {
    return &memCatalog{
        screenings: map[uint64]model.Screening{},
        movies:     map[uint64]model.Movie{},
        rooms:      map[uint64]model.Room{},
        seats:      map[uint64][]model.Seat{},
    }
}

func (c *memCatalog) GetScreening(_ context.Context, id uint64) (*model.Screening, error) {
    s, ok := c.screenings[id]
    if !ok {
        return nil, ErrNotFound
    }
    return &s, nil
}

func (c *memCatalog) GetMovie(_ context.Context, id uint64) (*model.Movie, error) {
    m, ok := c.movies[id]
    if !ok {
        return nil, ErrNotFound
    }
    return &m, nil
}

func (c *memCatalog) GetRoom(_ context.Context, id uint64) (*model.Room, error) {
    r, ok := c.rooms[id]
    if !ok {
        return nil, ErrNotFound
    }
    return &r, nil
}

func (c *memCatalog) GetRoomSeats(_ context.Context, roomID uint64) ([]model.Seat, error) {
    return c.seats[roomID], nil
}

func (c *memCatalog) GetRoomScreenings(_ context.Context, roomID uint64, from, to time.Time) ([]model.Screening, error) {
    var out []model.Screening
    for _, s := range c.screenings {
        if s.RoomID == roomID && s.StartsAt.Before(to) && s.EndsAt.After(from) {
            out = append(out, s)
        }
    }
    return out, nil
}

// memStore is an in-memory Store mirroring the transactional guarantees of
// the SQL implementation, including the expiry re-checks in FinalizeBooking
// and ReleaseExpired.
type memStore struct {
    mu       sync.Mutex
    now      func() time.Time
    nextID   uint64
    bookings map[uint64]*model.Booking
    tickets  map[uint64][]model.Ticket // by booking ID
}

func newMemStore() *memStore {
    return &memStore{
        now:      func() time.Time { return time.Now().UTC() },
        nextID:   1,
        bookings: map[uint64]*model.Booking{},
        tickets:  map[uint64][]model.Ticket{},
    }
}

func (s *memStore) BlockingSeatIDs(_ context.Context, screeningID uint64, now time.Time) (map[uint64]struct{}, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := map[uint64]struct{}{}
    for _, ts := range s.tickets {
        for _, t := range ts {
            if t.ScreeningID == screeningID && t.Active(now) {
                out[t.SeatID] = struct{}{}
            }
        }
    }
    return out, nil
}

func (s *memStore) CreateBookingWithTickets(_ context.Context, b *model.Booking, tickets []model.Ticket) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := s.now()
    // mirror the tx-level sweep of lapsed holds for this screening
    for id, bk := range s.bookings {
        if bk.Status == model.BookingPending && bk.ScreeningID == b.ScreeningID &&
            bk.HoldExpiresAt != nil && !bk.HoldExpiresAt.After(now) {
            bk.Status = model.BookingCancelled
            bk.HoldExpiresAt = nil
            delete(s.tickets, id)
        }
    }
    for _, t := range tickets {
        for _, ts := range s.tickets {
            for _, held := range ts {
                if held.ScreeningID == t.ScreeningID && held.SeatID == t.SeatID {
                    return ErrSeatTaken
                }
            }
        }
    }
    b.ID = s.nextID
    s.nextID++
    stored := make([]model.Ticket, len(tickets))
    copy(stored, tickets)
    for i := range stored {
        stored[i].ID = s.nextID
        s.nextID++
        stored[i].BookingID = b.ID
    }
    cp := *b
    s.bookings[b.ID] = &cp
    s.tickets[b.ID] = stored
    return nil
}

func (s *memStore) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *b
    return &cp, nil
}

func (s *memStore) GetTickets(_ context.Context, bookingID uint64) ([]model.Ticket, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]model.Ticket, len(s.tickets[bookingID]))
    copy(out, s.tickets[bookingID])
    return out, nil
}

func (s *memStore) FinalizeBooking(_ context.Context, id uint64, method, reference string, now time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return ErrNotFound
    }
    if b.Status != model.BookingPending {
        return ErrNotPending
    }
    if b.HoldExpiresAt == nil || !b.HoldExpiresAt.After(now) {
        return ErrHoldLapsed
    }
    b.Status = model.BookingPaid
    b.PaymentMethod = &method
    b.PaymentRef = &reference
    b.HoldExpiresAt = nil
    ts := s.tickets[id]
    for i := range ts {
        ts[i].Status = model.TicketPaid
        ts[i].HoldExpiresAt = nil
    }
    return nil
}

func (s *memStore) ReleaseBooking(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return ErrNotFound
    }
    if b.Status == model.BookingCancelled {
        return nil
    }
    if b.Status != model.BookingPending {
        return ErrNotPending
    }
    b.Status = model.BookingCancelled
    b.HoldExpiresAt = nil
    delete(s.tickets, id)
    return nil
}

func (s *memStore) ReleaseExpired(_ context.Context, id uint64, now time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return ErrNotFound
    }
    if b.Status == model.BookingCancelled {
        return nil
    }
    if b.Status != model.BookingPending {
        return ErrNotPending
    }
    if b.HoldExpiresAt != nil && b.HoldExpiresAt.After(now) {
        // finalize won the race, nothing to release
        return nil
    }
    b.Status = model.BookingCancelled
    b.HoldExpiresAt = nil
    delete(s.tickets, id)
    return nil
}

func (s *memStore) ExpiredPendingBookings(_ context.Context, now time.Time) ([]uint64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []uint64
    for id, b := range s.bookings {
        if b.Status == model.BookingPending && b.HoldExpiresAt != nil && !b.HoldExpiresAt.After(now) {
            out = append(out, id)
        }
    }
    return out, nil
}

// memNotifier records published paid notices.
type memNotifier struct {
    mu      sync.Mutex
    notices []PaidNotice
}

func (n *memNotifier) BookingPaid(_ context.Context, notice PaidNotice) error {
    n.mu.Lock()
    defer n.mu.Unlock()
    n.notices = append(n.notices, notice)
    return nil
}
