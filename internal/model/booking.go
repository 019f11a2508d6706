package model

import "time"

// BookingStatus is the closed state set for a booking.  A booking's status
// mirrors the aggregate of its tickets: PENDING while any ticket is held,
// PAID once all are paid, CANCELLED once released.
type BookingStatus string

// Booking status values stored in bookings.status.
const (
    BookingPending   BookingStatus = "PENDING"
    BookingPaid      BookingStatus = "PAID"
    BookingCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
    switch s {
    case BookingPending, BookingPaid, BookingCancelled:
        return true
    }
    return false
}

// Booking is the transactional envelope grouping 1..N seat tickets for one
// screening.  A booking and its tickets are created together atomically and
// transition together; no operation may leave a booking partially updated.
//
// Fields:
//  ID             - primary key identifier.
//  Code           - unique public booking code.
//  UserID         - customer who started checkout (nil for guest holds).
//  ScreeningID    - screening being booked.
//  Status         - PENDING, PAID or CANCELLED.
//  TotalCents     - total price in cents across all tickets.
//  PaymentMethod  - method supplied at finalize time (nil while pending).
//  PaymentRef     - external payment reference token (nil while pending).
//  HoldExpiresAt  - when the pending hold lapses (nil once paid).
//  Note           - optional free-text note from the customer.
//  CreatedAt      - creation timestamp.
//  UpdatedAt      - last update timestamp.
type Booking struct {
    ID            uint64        // bookings.id
    Code          string        // bookings.code
    UserID        *uint64       // bookings.user_id (nullable)
    ScreeningID   uint64        // bookings.screening_id
    Status        BookingStatus // bookings.status
    TotalCents    uint32        // bookings.total_cents
    PaymentMethod *string       // bookings.payment_method (nullable)
    PaymentRef    *string       // bookings.payment_ref (nullable)
    HoldExpiresAt *time.Time    // bookings.hold_expires_at (nullable)
    Note          string        // bookings.note
    CreatedAt     time.Time     // bookings.created_at
    UpdatedAt     time.Time     // bookings.updated_at
}
