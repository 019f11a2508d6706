// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingPaidEvent is published when a booking is successfully finalized.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingPaidEvent struct {
    BookingID   uint64 `json:"booking_id"`
    BookingCode string `json:"booking_code"`
    ScreeningID uint64 `json:"screening_id"`
    TotalCents  uint32 `json:"total_cents"`
    PaymentRef  string `json:"payment_ref"`
    PaidAt      string `json:"paid_at"`
}

// PaymentResultEvent is consumed from the payment gateway's result queue.
// A successful result finalizes the referenced booking; a failed one
// releases its hold.
type PaymentResultEvent struct {
    BookingID uint64 `json:"booking_id"`
    Success   bool   `json:"success"`
    Method    string `json:"method"`
    Reference string `json:"reference"`
}
