package seatmap

import (
    "github.com/cinetick/cinema-ticketing/internal/model"
)

// ValidateSelection checks a proposed seat selection against the seating
// rules and the set of seats currently blocking the screening.  On success
// it returns the normalized selection: the pair-expanded seat IDs in
// row-major order, ascending by seat number.
//
// Rules, in evaluation order:
//  1. every selected seat must exist, be active and not be blocked
//  2. the expanded selection may not exceed MaxSelection seats
//  3. both halves of a couple pair must be selected together
//  4. the resulting row state may not leave an isolated free seat
func (m *Map) ValidateSelection(selection []uint64, blocking map[uint64]struct{}) ([]uint64, error) {
    selected := make(map[uint64]struct{}, len(selection))
    for _, id := range selection {
        s, ok := m.Seat(id)
        if !ok || !s.IsActive {
            return nil, &model.Error{
                Kind:    model.ErrInvalidReference,
                Message: "seat is not part of this room or is inactive",
                SeatIDs: []uint64{id},
            }
        }
        if _, held := blocking[id]; held {
            return nil, &model.Error{
                Kind:    model.ErrSeatAlreadyHeld,
                Message: "seat is already held or paid for this screening",
                SeatIDs: []uint64{id},
            }
        }
        selected[id] = struct{}{}
    }

    if len(selected) > MaxSelection {
        return nil, model.NewError(model.ErrTooManySeats,
            "a booking may cover at most %d seats", MaxSelection)
    }

    for id := range selected {
        s, _ := m.Seat(id)
        if s.PartnerID == 0 {
            continue
        }
        if _, ok := selected[s.PartnerID]; !ok {
            return nil, &model.Error{
                Kind:    model.ErrIncompleteCoupleSeat,
                Message: "couple seats must be selected as a pair",
                SeatIDs: []uint64{id, s.PartnerID},
            }
        }
    }

    if err := m.checkGaps(selected, blocking); err != nil {
        return nil, err
    }

    return m.normalize(selected), nil
}

// checkGaps applies the no-orphan-gap rule to every row independently.  A
// seat counts as taken when it is inactive, blocked for the screening, or
// part of the selection.  A free seat violates the rule when it sits at a
// row edge next to a taken seat, or between two taken seats.
func (m *Map) checkGaps(selected, blocking map[uint64]struct{}) error {
    for _, row := range m.Rows {
        n := len(row.Seats)
        taken := make([]bool, n)
        for i, s := range row.Seats {
            if !s.IsActive {
                taken[i] = true
                continue
            }
            if _, held := blocking[s.ID]; held {
                taken[i] = true
                continue
            }
            if _, sel := selected[s.ID]; sel {
                taken[i] = true
            }
        }
        for i := 0; i < n; i++ {
            if taken[i] {
                continue
            }
            isolated := false
            switch {
            case n < 2:
                // single-seat row has no neighbours
            case i == 0:
                isolated = taken[1]
            case i == n-1:
                isolated = taken[n-2]
            default:
                isolated = taken[i-1] && taken[i+1]
            }
            if isolated {
                return &model.Error{
                    Kind:       model.ErrIsolatedSeatGap,
                    Message:    "selection would leave an unsellable single-seat gap",
                    RowLabel:   row.Label,
                    SeatNumber: row.Seats[i].SeatNumber,
                }
            }
        }
    }
    return nil
}

// normalize returns the selected seat IDs in deterministic row-major order.
func (m *Map) normalize(selected map[uint64]struct{}) []uint64 {
    out := make([]uint64, 0, len(selected))
    for _, row := range m.Rows {
        for _, s := range row.Seats {
            if _, ok := selected[s.ID]; ok {
                out = append(out, s.ID)
            }
        }
    }
    return out
}
