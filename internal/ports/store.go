package ports

import (
	"context"

	"travel-nav-service/internal/domain"
)

// DestinationStore keeps the last resolved destination per owner. The engine
// accepts a stored destination at session start and never writes the store
// itself; persistence belongs to the API layer.
type DestinationStore interface {
	LoadLast(ctx context.Context, owner string) (domain.Location, bool, error)
	SaveLast(ctx context.Context, owner string, loc domain.Location) error
}

// Notifier is the toast sink: short human-readable status and error strings.
// Presentation is out of scope here.
type Notifier interface {
	Notify(message string)
}
