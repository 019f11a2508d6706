// Package schedule decides whether a proposed or edited screening may be
// committed.  The validator is pure: it inspects the candidate against the
// room's existing screenings and either approves or returns a typed domain
// error; the caller persists only on success.
package schedule

import (
    "time"

    "github.com/cinetick/cinema-ticketing/internal/model"
)

// Buffer is the minimum required gap between two screenings in the same
// room.  The overlap test widens each existing screening by Buffer on both
// sides and intersects the candidate with that single window, so a
// screening ending at 20:00 conflicts with one starting at 20:10 even
// though the raw intervals never touch.
const Buffer = 30 * time.Minute

// suggestionHorizon caps the forward scan for a free slot: the search stays
// within the candidate's own day.
const suggestionHorizon = 24 * time.Hour

// Candidate is a proposed screening, either new (ExcludeID zero) or an edit
// of an existing screening (ExcludeID set to the screening being edited).
type Candidate struct {
    ExcludeID uint64
    MovieID   uint64
    RoomID    uint64
    VenueID   uint64
    StartsAt  time.Time
    EndsAt    time.Time
}

// DeriveEndTime computes a screening's end from the movie's duration.  It
// fails with INVALID_REFERENCE when the movie carries no duration or the
// start time is missing.
func DeriveEndTime(movie *model.Movie, start time.Time) (time.Time, error) {
    if movie == nil || movie.DurationMin == 0 {
        return time.Time{}, model.NewError(model.ErrInvalidReference, "movie has no duration")
    }
    if start.IsZero() {
        return time.Time{}, model.NewError(model.ErrInvalidReference, "start time is missing")
    }
    return start.Add(movie.Duration()), nil
}

// Validate checks the candidate against the room and the room's existing
// screenings.  On conflict it returns a SCHEDULE_CONFLICT error carrying
// the full list of conflicting screenings and, when one exists within the
// candidate's day, the next start time that would be accepted.
func Validate(cand Candidate, room *model.Room, existing []model.Screening) error {
    if room == nil || !room.IsActive {
        return model.NewError(model.ErrRoomInactive, "room is not accepting screenings")
    }
    if cand.VenueID != 0 && room.VenueID != cand.VenueID {
        return model.NewError(model.ErrRoomNotInVenue, "room %d does not belong to venue %d", room.ID, cand.VenueID)
    }

    others := make([]model.Screening, 0, len(existing))
    for _, s := range existing {
        if cand.ExcludeID != 0 && s.ID == cand.ExcludeID {
            continue
        }
        if s.Status == model.ScreeningCancelled {
            continue
        }
        if s.MovieID == cand.MovieID && s.RoomID == cand.RoomID && s.StartsAt.Equal(cand.StartsAt) {
            return model.NewError(model.ErrDuplicateScreening,
                "an identical screening already exists for this movie, room and start time")
        }
        others = append(others, s)
    }

    conflicts := conflictsWith(cand.StartsAt, cand.EndsAt, others)
    if len(conflicts) == 0 {
        return nil
    }

    err := &model.Error{
        Kind:      model.ErrScheduleConflict,
        Message:   "screening time conflicts with the room schedule",
        Conflicts: conflicts,
    }
    if next, ok := nextFreeStart(cand, others); ok {
        err.SuggestedStart = &next
    }
    return err
}

// conflictsWith returns every screening whose buffered window
// [start−Buffer, end+Buffer) intersects the candidate interval [start, end).
// The test is symmetric: widening one side by Buffer is equivalent to
// demanding a Buffer-sized gap between the raw intervals.
func conflictsWith(start, end time.Time, others []model.Screening) []model.Screening {
    var out []model.Screening
    for _, s := range others {
        winStart := s.StartsAt.Add(-Buffer)
        winEnd := s.EndsAt.Add(Buffer)
        if start.Before(winEnd) && end.After(winStart) {
            out = append(out, s)
        }
    }
    return out
}

// nextFreeStart scans forward from the end of the last conflicting window
// in Buffer-sized steps, keeping the candidate's duration, until a start is
// found that conflicts with nothing.  The scan gives up once the start
// drifts past the suggestion horizon.
func nextFreeStart(cand Candidate, others []model.Screening) (time.Time, bool) {
    duration := cand.EndsAt.Sub(cand.StartsAt)
    if duration <= 0 {
        return time.Time{}, false
    }
    latest := cand.StartsAt
    for _, s := range conflictsWith(cand.StartsAt, cand.EndsAt, others) {
        if w := s.EndsAt.Add(Buffer); w.After(latest) {
            latest = w
        }
    }
    limit := cand.StartsAt.Add(suggestionHorizon)
    for start := latest; !start.After(limit); start = start.Add(Buffer) {
        if sameDay := start.Day() == cand.StartsAt.Day(); !sameDay {
            break
        }
        if len(conflictsWith(start, start.Add(duration), others)) == 0 {
            return start, true
        }
    }
    return time.Time{}, false
}
