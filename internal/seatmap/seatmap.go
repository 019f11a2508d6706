// Package seatmap models a room's seating topology.  A Map is computed once
// per room from the flat seat list and then reused: it groups seats by row,
// orders them by seat number, and resolves the fixed COUPLE pairings.  The
// package is pure - it never touches storage - so selection rules can be
// validated both incrementally (at toggle time) and in full (at submission
// time) against whatever blocking set the caller supplies.
package seatmap

import (
    "sort"
    "strings"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// State is the presentation status of a seat relative to a screening and a
// caller's working selection.
type State string

// Seat states as exposed to seat-picker clients.
const (
    StateFree     State = "FREE"
    StateSelected State = "SELECTED"
    StateReserved State = "RESERVED"
)

// MaxSelection is the largest number of seats one booking may cover, counted
// after couple pairs are expanded to both halves.
const MaxSelection = 6

// Seat is a positioned seat within the map.  PartnerID is non-zero only for
// a COUPLE seat that has a valid partner: the seat with the consecutive
// odd/even number in the same row.  A couple seat without a partner is
// treated as a single unit.
type Seat struct {
    model.Seat
    PartnerID uint64
}

// Row is an ordered run of seats sharing a row label.
type Row struct {
    Label string
    Seats []Seat
}

// Map is the arena-indexed seat topology of one room.
type Map struct {
    RoomID uint64
    Rows   []Row

    byID map[uint64]seatPos
}

type seatPos struct {
    row int // index into Rows
    col int // index into Rows[row].Seats
}

// New builds a Map from the room's seats.  Rows are ordered by their label
// index (A, B, …, Z, AA, …), seats within a row by seat number.  Couple
// seats are paired left-to-right: an odd-numbered COUPLE seat pairs with the
// even-numbered COUPLE seat directly following it in the same row.
func New(roomID uint64, seats []model.Seat) *Map {
    grouped := make(map[string][]Seat)
    for _, s := range seats {
        lbl := strings.ToUpper(strings.TrimSpace(s.RowLabel))
        grouped[lbl] = append(grouped[lbl], Seat{Seat: s})
    }
    labels := make([]string, 0, len(grouped))
    for lbl := range grouped {
        labels = append(labels, lbl)
    }
    sort.Slice(labels, func(i, j int) bool {
        ii, okI := RowLabelToIndex(labels[i])
        jj, okJ := RowLabelToIndex(labels[j])
        if !okI || !okJ {
            return labels[i] < labels[j]
        }
        return ii < jj
    })

    m := &Map{RoomID: roomID, byID: make(map[uint64]seatPos, len(seats))}
    for ri, lbl := range labels {
        row := Row{Label: lbl, Seats: grouped[lbl]}
        sort.Slice(row.Seats, func(i, j int) bool {
            return row.Seats[i].SeatNumber < row.Seats[j].SeatNumber
        })
        pairCouples(row.Seats)
        for ci, s := range row.Seats {
            m.byID[s.ID] = seatPos{row: ri, col: ci}
        }
        m.Rows = append(m.Rows, row)
    }
    return m
}

// pairCouples links odd/even COUPLE neighbours within one ordered row.
func pairCouples(seats []Seat) {
    for i := 0; i+1 < len(seats); i++ {
        a, b := &seats[i], &seats[i+1]
        if a.SeatType != model.SeatCouple || b.SeatType != model.SeatCouple {
            continue
        }
        if a.SeatNumber%2 == 1 && b.SeatNumber == a.SeatNumber+1 {
            a.PartnerID = b.ID
            b.PartnerID = a.ID
        }
    }
}

// Seat returns the mapped seat with the given ID.
func (m *Map) Seat(id uint64) (Seat, bool) {
    pos, ok := m.byID[id]
    if !ok {
        return Seat{}, false
    }
    return m.Rows[pos.row].Seats[pos.col], true
}

// Classify reports the presentation state of one seat.  A seat is RESERVED
// when it is inactive or present in the set currently blocking the viewed
// screening, SELECTED when it is in the caller's working selection, and
// FREE otherwise.
func (m *Map) Classify(id uint64, blocking, selection map[uint64]struct{}) State {
    s, ok := m.Seat(id)
    if !ok {
        return StateReserved
    }
    if !s.IsActive {
        return StateReserved
    }
    if _, held := blocking[id]; held {
        return StateReserved
    }
    if _, sel := selection[id]; sel {
        return StateSelected
    }
    return StateFree
}
