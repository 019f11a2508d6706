package seatmap

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

func mkSeat(id uint64, row string, num uint32, t model.SeatType) model.Seat {
    return model.Seat{ID: id, RoomID: 1, RowLabel: row, SeatNumber: num, SeatType: t, IsActive: true}
}

func ids(vals ...uint64) map[uint64]struct{} {
    out := make(map[uint64]struct{}, len(vals))
    for _, v := range vals {
        out[v] = struct{}{}
    }
    return out
}

func TestNewOrdersRowsAndSeats(t *testing.T) {
    m := New(1, []model.Seat{
        mkSeat(5, "b", 2, model.SeatStandard),
        mkSeat(3, "AA", 1, model.SeatStandard),
        mkSeat(4, "B", 1, model.SeatStandard),
        mkSeat(1, "A", 2, model.SeatStandard),
        mkSeat(2, "A", 1, model.SeatStandard),
    })
    require.Len(t, m.Rows, 3)
    assert.Equal(t, "A", m.Rows[0].Label)
    assert.Equal(t, "B", m.Rows[1].Label)
    assert.Equal(t, "AA", m.Rows[2].Label, "double letters sort after Z, not alphabetically")
    assert.Equal(t, uint32(1), m.Rows[0].Seats[0].SeatNumber)
    assert.Equal(t, uint32(2), m.Rows[0].Seats[1].SeatNumber)

    s, ok := m.Seat(5)
    require.True(t, ok)
    assert.Equal(t, "B", s.RowLabel)
}

func TestCouplePairing(t *testing.T) {
    m := New(1, []model.Seat{
        mkSeat(1, "C", 1, model.SeatCouple),
        mkSeat(2, "C", 2, model.SeatCouple),
        mkSeat(3, "C", 3, model.SeatCouple),
        mkSeat(4, "C", 4, model.SeatCouple),
        mkSeat(5, "C", 5, model.SeatStandard),
    })
    for id, want := range map[uint64]uint64{1: 2, 2: 1, 3: 4, 4: 3, 5: 0} {
        s, ok := m.Seat(id)
        require.True(t, ok)
        assert.Equal(t, want, s.PartnerID, "seat %d", id)
    }
}

func TestCoupleWithoutPartnerStandsAlone(t *testing.T) {
    // an even-numbered couple seat with no odd predecessor stays unpaired
    m := New(1, []model.Seat{
        mkSeat(1, "C", 1, model.SeatStandard),
        mkSeat(2, "C", 2, model.SeatCouple),
    })
    s, _ := m.Seat(2)
    assert.Zero(t, s.PartnerID)

    _, err := m.ValidateSelection([]uint64{1, 2}, nil)
    require.NoError(t, err)
}

func TestValidateSelectionRejectsUnknownAndBlocked(t *testing.T) {
    m := New(1, []model.Seat{
        mkSeat(1, "A", 1, model.SeatStandard),
        mkSeat(2, "A", 2, model.SeatStandard),
    })

    _, err := m.ValidateSelection([]uint64{99}, nil)
    de, ok := model.AsError(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrInvalidReference, de.Kind)
    assert.Equal(t, []uint64{99}, de.SeatIDs)

    _, err = m.ValidateSelection([]uint64{1, 2}, ids(2))
    de, ok = model.AsError(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrSeatAlreadyHeld, de.Kind)
    assert.Equal(t, []uint64{2}, de.SeatIDs)
}

func TestValidateSelectionInactiveSeat(t *testing.T) {
    broken := mkSeat(2, "A", 2, model.SeatStandard)
    broken.IsActive = false
    m := New(1, []model.Seat{mkSeat(1, "A", 1, model.SeatStandard), broken})

    _, err := m.ValidateSelection([]uint64{2}, nil)
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrInvalidReference, kind)
}

func TestValidateSelectionMaxSeats(t *testing.T) {
    seats := make([]model.Seat, 8)
    sel := make([]uint64, 7)
    for i := range seats {
        seats[i] = mkSeat(uint64(i+1), "A", uint32(i+1), model.SeatStandard)
    }
    for i := range sel {
        sel[i] = uint64(i + 1)
    }
    m := New(1, seats)

    _, err := m.ValidateSelection(sel, nil)
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrTooManySeats, kind)

    _, err = m.ValidateSelection(sel[:6], nil)
    require.NoError(t, err, "six seats leaving no gap must pass")
}

func TestValidateSelectionIncompleteCouple(t *testing.T) {
    m := New(1, []model.Seat{
        mkSeat(1, "C", 1, model.SeatCouple),
        mkSeat(2, "C", 2, model.SeatCouple),
    })
    _, err := m.ValidateSelection([]uint64{1}, nil)
    de, ok := model.AsError(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrIncompleteCoupleSeat, de.Kind)
    assert.ElementsMatch(t, []uint64{1, 2}, de.SeatIDs)
}

func TestGapRule(t *testing.T) {
    // row A: four active standard seats
    row := []model.Seat{
        mkSeat(1, "A", 1, model.SeatStandard),
        mkSeat(2, "A", 2, model.SeatStandard),
        mkSeat(3, "A", 3, model.SeatStandard),
        mkSeat(4, "A", 4, model.SeatStandard),
    }

    cases := []struct {
        name     string
        sel      []uint64
        blocking map[uint64]struct{}
        wantGap  bool
    }{
        {"middle gap between selections", []uint64{1, 3}, nil, true},
        {"edge seat orphaned by selection", []uint64{1, 2, 3}, nil, true},
        {"no gap on full row", []uint64{1, 2, 3, 4}, nil, false},
        {"right pair leaves open run", []uint64{3, 4}, nil, false},
        {"gap against blocked seat", []uint64{1}, ids(3), true},
        {"selection completes blocked row", []uint64{3, 4}, ids(1, 2), false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            m := New(1, row)
            _, err := m.ValidateSelection(tc.sel, tc.blocking)
            if tc.wantGap {
                de, ok := model.AsError(err)
                require.True(t, ok, "expected a domain error, got %v", err)
                assert.Equal(t, model.ErrIsolatedSeatGap, de.Kind)
                assert.Equal(t, "A", de.RowLabel)
            } else {
                require.NoError(t, err)
            }
        })
    }
}

func TestGapRuleCountsInactiveAsTaken(t *testing.T) {
    dead := mkSeat(2, "A", 2, model.SeatStandard)
    dead.IsActive = false
    m := New(1, []model.Seat{
        mkSeat(1, "A", 1, model.SeatStandard),
        dead,
        mkSeat(3, "A", 3, model.SeatStandard),
        mkSeat(4, "A", 4, model.SeatStandard),
    })

    // with 3 and 4 selected, seat 1 ends up free at the row edge next to
    // the inactive seat, which counts as taken
    _, err := m.ValidateSelection([]uint64{3, 4}, nil)
    de, ok := model.AsError(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrIsolatedSeatGap, de.Kind)
    assert.Equal(t, uint32(1), de.SeatNumber)
}

func TestGapRuleRowsAreIndependent(t *testing.T) {
    m := New(1, []model.Seat{
        mkSeat(1, "A", 1, model.SeatStandard),
        mkSeat(2, "A", 2, model.SeatStandard),
        mkSeat(3, "B", 1, model.SeatStandard),
        mkSeat(4, "B", 2, model.SeatStandard),
    })
    // taking all of row A leaves row B untouched and valid
    _, err := m.ValidateSelection([]uint64{1, 2}, nil)
    require.NoError(t, err)
}

func TestNormalizedOrderIsRowMajor(t *testing.T) {
    m := New(1, []model.Seat{
        mkSeat(10, "A", 1, model.SeatStandard),
        mkSeat(11, "A", 2, model.SeatStandard),
        mkSeat(20, "B", 1, model.SeatStandard),
        mkSeat(21, "B", 2, model.SeatStandard),
    })
    got, err := m.ValidateSelection([]uint64{21, 10, 20, 11}, nil)
    require.NoError(t, err)
    assert.Equal(t, []uint64{10, 11, 20, 21}, got)
}

func TestClassify(t *testing.T) {
    dead := mkSeat(3, "A", 3, model.SeatStandard)
    dead.IsActive = false
    m := New(1, []model.Seat{
        mkSeat(1, "A", 1, model.SeatStandard),
        mkSeat(2, "A", 2, model.SeatStandard),
        dead,
    })
    blocking := ids(2)
    selection := ids(1)

    assert.Equal(t, StateSelected, m.Classify(1, blocking, selection))
    assert.Equal(t, StateReserved, m.Classify(2, blocking, selection))
    assert.Equal(t, StateReserved, m.Classify(3, blocking, selection), "inactive renders as reserved")
    assert.Equal(t, StateReserved, m.Classify(99, blocking, selection), "unknown renders as reserved")
}

func TestRowLabelRoundTrip(t *testing.T) {
    for i := 0; i < 80; i++ {
        lbl := IndexToRowLabel(i)
        back, ok := RowLabelToIndex(lbl)
        require.True(t, ok, "label %q", lbl)
        assert.Equal(t, i, back)
    }
    assert.Equal(t, "A", IndexToRowLabel(0))
    assert.Equal(t, "Z", IndexToRowLabel(25))
    assert.Equal(t, "AA", IndexToRowLabel(26))

    _, ok := RowLabelToIndex("4")
    assert.False(t, ok)
}
