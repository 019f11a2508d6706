package schedule

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

var day = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func activeRoom() *model.Room {
    return &model.Room{ID: 1, VenueID: 1, Name: "Room 1", IsActive: true}
}

// existing screening 18:00-20:00 in room 1
func evening() []model.Screening {
    return []model.Screening{{
        ID: 20, MovieID: 1, RoomID: 1,
        StartsAt: at(18, 0), EndsAt: at(20, 0),
        Status: model.ScreeningScheduled,
    }}
}

func cand(start, end time.Time) Candidate {
    return Candidate{MovieID: 2, RoomID: 1, VenueID: 1, StartsAt: start, EndsAt: end}
}

func TestDeriveEndTime(t *testing.T) {
    movie := &model.Movie{ID: 1, DurationMin: 135}
    end, err := DeriveEndTime(movie, at(18, 0))
    require.NoError(t, err)
    assert.Equal(t, at(20, 15), end)

    _, err = DeriveEndTime(&model.Movie{ID: 2}, at(18, 0))
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrInvalidReference, kind)

    _, err = DeriveEndTime(movie, time.Time{})
    kind, ok = model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrInvalidReference, kind)
}

func TestValidateRoomChecks(t *testing.T) {
    inactive := activeRoom()
    inactive.IsActive = false
    err := Validate(cand(at(9, 0), at(11, 0)), inactive, nil)
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrRoomInactive, kind)

    err = Validate(cand(at(9, 0), at(11, 0)), nil, nil)
    kind, ok = model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrRoomInactive, kind)

    c := cand(at(9, 0), at(11, 0))
    c.VenueID = 7
    err = Validate(c, activeRoom(), nil)
    kind, ok = model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrRoomNotInVenue, kind)
}

func TestValidateBuffer(t *testing.T) {
    cases := []struct {
        name     string
        start    time.Time
        conflict bool
    }{
        {"well before", at(14, 0), false},
        {"ends exactly at buffered start", at(15, 30), false}, // 15:30-17:30, window opens 17:30
        {"ends one minute into buffer", at(15, 31), true},
        {"starts inside trailing buffer", at(20, 29), true},
        {"starts exactly at buffer edge", at(20, 30), false},
        {"fully inside", at(18, 30), true},
        {"spans the whole screening", at(17, 0), true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := Validate(cand(tc.start, tc.start.Add(2*time.Hour)), activeRoom(), evening())
            if !tc.conflict {
                require.NoError(t, err)
                return
            }
            de, ok := model.AsError(err)
            require.True(t, ok)
            assert.Equal(t, model.ErrScheduleConflict, de.Kind)
            require.Len(t, de.Conflicts, 1)
            assert.Equal(t, uint64(20), de.Conflicts[0].ID)
        })
    }
}

func TestValidateConflictIsSymmetric(t *testing.T) {
    // if A conflicts with B scheduled, B conflicts with A scheduled
    a := model.Screening{ID: 1, MovieID: 1, RoomID: 1, StartsAt: at(18, 0), EndsAt: at(20, 0), Status: model.ScreeningScheduled}
    b := model.Screening{ID: 2, MovieID: 2, RoomID: 1, StartsAt: at(20, 15), EndsAt: at(22, 0), Status: model.ScreeningScheduled}

    errAB := Validate(Candidate{MovieID: b.MovieID, RoomID: 1, StartsAt: b.StartsAt, EndsAt: b.EndsAt}, activeRoom(), []model.Screening{a})
    errBA := Validate(Candidate{MovieID: a.MovieID, RoomID: 1, StartsAt: a.StartsAt, EndsAt: a.EndsAt}, activeRoom(), []model.Screening{b})

    kindAB, _ := model.KindOf(errAB)
    kindBA, _ := model.KindOf(errBA)
    assert.Equal(t, model.ErrScheduleConflict, kindAB)
    assert.Equal(t, model.ErrScheduleConflict, kindBA)
}

func TestValidateIgnoresCancelledAndExcluded(t *testing.T) {
    cancelled := evening()
    cancelled[0].Status = model.ScreeningCancelled
    require.NoError(t, Validate(cand(at(18, 30), at(20, 30)), activeRoom(), cancelled))

    c := cand(at(18, 30), at(20, 30))
    c.ExcludeID = 20
    require.NoError(t, Validate(c, activeRoom(), evening()))
}

func TestValidateDuplicateTriple(t *testing.T) {
    c := Candidate{MovieID: 1, RoomID: 1, StartsAt: at(18, 0), EndsAt: at(20, 30)}
    err := Validate(c, activeRoom(), evening())
    kind, ok := model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrDuplicateScreening, kind)

    // same start, different movie: a conflict, not a duplicate
    c.MovieID = 2
    err = Validate(c, activeRoom(), evening())
    kind, ok = model.KindOf(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrScheduleConflict, kind)
}

func TestSuggestedStart(t *testing.T) {
    err := Validate(cand(at(19, 0), at(21, 0)), activeRoom(), evening())
    de, ok := model.AsError(err)
    require.True(t, ok)
    require.NotNil(t, de.SuggestedStart)
    assert.Equal(t, at(20, 30), *de.SuggestedStart)
}

func TestSuggestedStartSkipsChainedConflicts(t *testing.T) {
    existing := append(evening(), model.Screening{
        ID: 21, MovieID: 3, RoomID: 1,
        StartsAt: at(21, 0), EndsAt: at(23, 0),
        Status: model.ScreeningScheduled,
    })
    // 20:30 would clear the first screening but lands inside the second
    // one's leading buffer, so the suggestion starts after the last
    // conflicting window instead
    err := Validate(cand(at(19, 0), at(21, 0)), activeRoom(), existing)
    de, ok := model.AsError(err)
    require.True(t, ok)
    require.NotNil(t, de.SuggestedStart)
    assert.Equal(t, at(23, 30), *de.SuggestedStart)
}

func TestSuggestedStartStaysWithinDay(t *testing.T) {
    late := []model.Screening{{
        ID: 22, MovieID: 1, RoomID: 1,
        StartsAt: at(21, 0), EndsAt: at(23, 30),
        Status: model.ScreeningScheduled,
    }}
    err := Validate(cand(at(22, 0), at(23, 59)), activeRoom(), late)
    de, ok := model.AsError(err)
    require.True(t, ok)
    assert.Equal(t, model.ErrScheduleConflict, de.Kind)
    assert.Nil(t, de.SuggestedStart, "no same-day slot exists after a screening ending 23:30")
}
