// Package pricing computes seat prices for a screening.  All money is
// integer cents; multipliers are expressed as tenths so every price the
// calculator can produce is exact.  Line items are emitted in row-major
// order (ascending seat number within a row) so totals are reproducible
// and auditable.
package pricing

import (
    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/seatmap"
)

// Seat-type multipliers in tenths: STANDARD and ACCESSIBLE ×1.0, VIP ×1.2.
// The couple multiplier ×1.5 applies to the combined pair, so a pair line is
// base × 2 × 1.5 = base × 3.
const (
    standardTenths   = 10
    accessibleTenths = 10
    vipTenths        = 12
    couplePairTenths = 30
)

// Line is one priced entry of a selection: either a single seat or a couple
// pair consumed as a whole.
type Line struct {
    SeatType   model.SeatType `json:"seat_type"`
    RowLabel   string         `json:"row_label"`
    SeatIDs    []uint64       `json:"seat_ids"`
    SeatNums   []uint32       `json:"seat_numbers"`
    PriceCents uint32         `json:"price_cents"`
}

// Quote is the deterministic result of pricing a selection.
type Quote struct {
    Lines      []Line `json:"lines"`
    TotalCents uint32 `json:"total_cents"`
}

// PriceOf returns the price of a single seat of the given type.  COUPLE
// must not be priced through this function; use PairPrice for the combined
// pair.
func PriceOf(seatType model.SeatType, baseCents uint32) uint32 {
    switch seatType {
    case model.SeatVIP:
        return baseCents * vipTenths / 10
    case model.SeatAccessible:
        return baseCents * accessibleTenths / 10
    case model.SeatCouple, model.SeatStandard:
        return baseCents * standardTenths / 10
    }
    return baseCents
}

// PairPrice returns the combined price of a couple pair.
func PairPrice(baseCents uint32) uint32 {
    return baseCents * couplePairTenths / 10
}

// PriceSelection prices a normalized seat selection against the seat map.
// Couple pairs are consumed first as one line each; remaining seats are
// priced individually.  The selection is walked in the map's row-major
// order, so line order is stable for a given selection.
func PriceSelection(m *seatmap.Map, selection []uint64, baseCents uint32) (*Quote, error) {
    selected := make(map[uint64]struct{}, len(selection))
    for _, id := range selection {
        if _, ok := m.Seat(id); !ok {
            return nil, model.NewError(model.ErrInvalidReference, "seat %d is not part of this room", id)
        }
        selected[id] = struct{}{}
    }

    q := &Quote{Lines: make([]Line, 0, len(selection))}
    consumed := make(map[uint64]struct{}, len(selection))
    for _, row := range m.Rows {
        for _, s := range row.Seats {
            if _, ok := selected[s.ID]; !ok {
                continue
            }
            if _, done := consumed[s.ID]; done {
                continue
            }
            line := Line{SeatType: s.SeatType, RowLabel: row.Label}
            partnerSelected := false
            if s.PartnerID != 0 {
                _, partnerSelected = selected[s.PartnerID]
            }
            if partnerSelected {
                partner, _ := m.Seat(s.PartnerID)
                line.SeatIDs = []uint64{s.ID, partner.ID}
                line.SeatNums = []uint32{s.SeatNumber, partner.SeatNumber}
                line.PriceCents = PairPrice(baseCents)
                consumed[partner.ID] = struct{}{}
            } else {
                line.SeatIDs = []uint64{s.ID}
                line.SeatNums = []uint32{s.SeatNumber}
                line.PriceCents = PriceOf(s.SeatType, baseCents)
            }
            consumed[s.ID] = struct{}{}
            q.Lines = append(q.Lines, line)
            q.TotalCents += line.PriceCents
        }
    }
    return q, nil
}
