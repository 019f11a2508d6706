package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

func TestKindStatus(t *testing.T) {
    cases := []struct {
        kind model.ErrorKind
        want int
    }{
        {model.ErrBookingNotFound, http.StatusNotFound},
        {model.ErrScheduleConflict, http.StatusConflict},
        {model.ErrDuplicateScreening, http.StatusConflict},
        {model.ErrSeatAlreadyHeld, http.StatusConflict},
        {model.ErrAlreadyFinalized, http.StatusConflict},
        {model.ErrHoldExpired, http.StatusGone},
        {model.ErrInvalidReference, http.StatusUnprocessableEntity},
        {model.ErrIsolatedSeatGap, http.StatusUnprocessableEntity},
        {model.ErrTooManySeats, http.StatusUnprocessableEntity},
    }
    for _, tc := range cases {
        assert.Equal(t, tc.want, kindStatus(tc.kind), string(tc.kind))
    }
}

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestDomainJSONScheduleConflictPayload(t *testing.T) {
    c, rec := newTestContext(t)
    suggested := time.Date(2026, 3, 15, 20, 30, 0, 0, time.UTC)
    err := domainJSON(c, &model.Error{
        Kind:    model.ErrScheduleConflict,
        Message: "room is busy",
        Conflicts: []model.Screening{
            {ID: 7, MovieID: 3, StartsAt: suggested.Add(-2 * time.Hour), EndsAt: suggested.Add(-30 * time.Minute)},
        },
        SuggestedStart: &suggested,
    })
    require.NoError(t, err)
    assert.Equal(t, http.StatusConflict, rec.Code)

    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, "SCHEDULE_CONFLICT", body["error"])
    assert.Equal(t, "room is busy", body["message"])
    assert.Len(t, body["conflicts"], 1)
    assert.Contains(t, body, "suggested_start")
}

func TestDomainJSONSeatGapPayload(t *testing.T) {
    c, rec := newTestContext(t)
    err := domainJSON(c, &model.Error{
        Kind:       model.ErrIsolatedSeatGap,
        Message:    "selection strands a seat",
        RowLabel:   "B",
        SeatNumber: 2,
    })
    require.NoError(t, err)
    assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, "B", body["row_label"])
    assert.Equal(t, float64(2), body["seat_number"])
}

func TestDomainJSONHidesInfrastructureErrors(t *testing.T) {
    c, rec := newTestContext(t)
    err := domainJSON(c, errors.New("dial tcp: connection refused"))
    require.NoError(t, err)
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.NotContains(t, rec.Body.String(), "connection refused")
}
