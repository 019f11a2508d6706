package model

import "time"

// TicketStatus is the closed state set for a ticket.  HELD is the only
// non-terminal state; a held ticket either becomes PAID or is removed when
// its booking is released.
type TicketStatus string

// Ticket status values stored in tickets.status.
const (
    TicketHeld      TicketStatus = "HELD"
    TicketPaid      TicketStatus = "PAID"
    TicketCancelled TicketStatus = "CANCELLED"
)

// Valid reports whether s is one of the known ticket statuses.
func (s TicketStatus) Valid() bool {
    switch s {
    case TicketHeld, TicketPaid, TicketCancelled:
        return true
    }
    return false
}

// Ticket is one seat's reservation within a booking.  At most one active
// ticket (HELD and not expired, or PAID) may exist for a given
// (screening, seat) pair at any time - this is the core correctness
// guarantee of the whole system and is additionally enforced by a
// uniqueness constraint at the storage layer.
//
// Fields:
//  ID            - primary key identifier.
//  BookingID     - booking this ticket belongs to.
//  ScreeningID   - screening the seat is reserved for.
//  SeatID        - seat being reserved.
//  PriceCents    - price paid for this seat (or seat pair share) in cents.
//  Status        - HELD, PAID or CANCELLED.
//  HoldExpiresAt - when a HELD ticket lapses (nil once paid).
//  Code          - redemption code presented at check-in.
//  CheckedInAt   - when the ticket was redeemed (nil until check-in).
//  CreatedAt     - creation timestamp.
//  UpdatedAt     - last update timestamp.
type Ticket struct {
    ID            uint64       // tickets.id
    BookingID     uint64       // tickets.booking_id
    ScreeningID   uint64       // tickets.screening_id
    SeatID        uint64       // tickets.seat_id
    PriceCents    uint32       // tickets.price_cents
    Status        TicketStatus // tickets.status
    HoldExpiresAt *time.Time   // tickets.hold_expires_at (nullable)
    Code          string       // tickets.code
    CheckedInAt   *time.Time   // tickets.checked_in_at (nullable)
    CreatedAt     time.Time    // tickets.created_at
    UpdatedAt     time.Time    // tickets.updated_at
}

// Active reports whether the ticket blocks its seat at the given instant.
// A PAID ticket always blocks; a HELD ticket blocks only until its hold
// expiry.  Computing this at read time keeps correctness independent of
// whether the background sweeper has already fired.
func (t Ticket) Active(now time.Time) bool {
    switch t.Status {
    case TicketPaid:
        return true
    case TicketHeld:
        return t.HoldExpiresAt != nil && t.HoldExpiresAt.After(now)
    case TicketCancelled:
        return false
    }
    return false
}
