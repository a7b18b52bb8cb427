package venue

import "context"

// Repository is the read-only source of venue and court records. They are
// administered elsewhere; this core only consumes them.
type Repository interface {
	// GetVenue returns an active venue by ID.
	GetVenue(ctx context.Context, id string) (*Venue, error)

	// GetCourt returns a court by ID, regardless of reservability.
	GetCourt(ctx context.Context, id string) (*Court, error)
}
