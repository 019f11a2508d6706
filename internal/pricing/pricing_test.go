package pricing

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/cinema-ticketing/internal/model"
    "github.com/cinetick/cinema-ticketing/internal/seatmap"
)

func mkSeat(id uint64, row string, num uint32, t model.SeatType) model.Seat {
    return model.Seat{ID: id, RoomID: 1, RowLabel: row, SeatNumber: num, SeatType: t, IsActive: true}
}

func TestPriceOf(t *testing.T) {
    const base = 90000

    assert.Equal(t, uint32(90000), PriceOf(model.SeatStandard, base))
    assert.Equal(t, uint32(90000), PriceOf(model.SeatAccessible, base))
    assert.Equal(t, uint32(108000), PriceOf(model.SeatVIP, base))
    assert.Equal(t, uint32(270000), PairPrice(base))
}

func TestPriceOfAvoidsFloatDrift(t *testing.T) {
    // multiplier arithmetic stays in integer tenths, so odd bases divide
    // exactly the way the published price table does
    assert.Equal(t, uint32(119988), PriceOf(model.SeatVIP, 99990))
    assert.Equal(t, uint32(3), PriceOf(model.SeatVIP, 3))
}

func TestPriceSelectionMixed(t *testing.T) {
    m := seatmap.New(1, []model.Seat{
        mkSeat(1, "A", 1, model.SeatVIP),
        mkSeat(2, "A", 2, model.SeatStandard),
        mkSeat(3, "C", 1, model.SeatCouple),
        mkSeat(4, "C", 2, model.SeatCouple),
    })

    q, err := PriceSelection(m, []uint64{1, 3, 4}, 90000)
    require.NoError(t, err)
    require.Len(t, q.Lines, 2)

    assert.Equal(t, model.SeatVIP, q.Lines[0].SeatType)
    assert.Equal(t, uint32(108000), q.Lines[0].PriceCents)

    assert.Equal(t, model.SeatCouple, q.Lines[1].SeatType)
    assert.Equal(t, []uint64{3, 4}, q.Lines[1].SeatIDs)
    assert.Equal(t, uint32(270000), q.Lines[1].PriceCents, "a pair is one line, never two seat prices")

    assert.Equal(t, uint32(378000), q.TotalCents)
}

func TestPriceSelectionUnpairedCouple(t *testing.T) {
    // a couple seat with no partner in the room prices as a single seat
    m := seatmap.New(1, []model.Seat{
        mkSeat(1, "C", 2, model.SeatCouple),
    })
    q, err := PriceSelection(m, []uint64{1}, 1000)
    require.NoError(t, err)
    require.Len(t, q.Lines, 1)
    assert.Equal(t, uint32(1000), q.Lines[0].PriceCents)
}

func TestPriceSelectionUnknownSeat(t *testing.T) {
    m := seatmap.New(1, []model.Seat{mkSeat(1, "A", 1, model.SeatStandard)})
    _, err := PriceSelection(m, []uint64{42}, 1000)
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrInvalidReference, kind)
}

func TestPriceSelectionLineOrderIsStable(t *testing.T) {
    m := seatmap.New(1, []model.Seat{
        mkSeat(1, "A", 1, model.SeatStandard),
        mkSeat(2, "B", 1, model.SeatStandard),
    })
    for i := 0; i < 5; i++ {
        q, err := PriceSelection(m, []uint64{2, 1}, 1000)
        require.NoError(t, err)
        require.Len(t, q.Lines, 2)
        assert.Equal(t, "A", q.Lines[0].RowLabel)
        assert.Equal(t, "B", q.Lines[1].RowLabel)
    }
}
