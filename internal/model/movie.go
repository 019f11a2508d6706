package model

import "time"

// Movie is the catalog entry a screening references.  Only the fields the
// scheduling engine needs are modelled here; poster handling, reviews and
// the rest of the catalog live in external collaborators.
//
// Fields:
//  ID          - primary key identifier.
//  Title       - movie title.
//  DurationMin - running time in minutes, used to derive screening end times.
//  IsActive    - whether the movie can be scheduled.
//  CreatedAt   - creation timestamp.
//  UpdatedAt   - last update timestamp.
type Movie struct {
    ID          uint64    // movies.id
    Title       string    // movies.title
    DurationMin uint32    // movies.duration_min
    IsActive    bool      // movies.is_active
    CreatedAt   time.Time // movies.created_at
    UpdatedAt   time.Time // movies.updated_at
}

// Duration returns the movie's running time as a time.Duration.
func (m Movie) Duration() time.Duration {
    return time.Duration(m.DurationMin) * time.Minute
}
