package interfaces

import (
	"context"

	"gamefi-market/src/models"
)

// -----------------------------------------------------------------------------
// IPricePublisher forwards ticks to a message bus.
// -----------------------------------------------------------------------------

type IPricePublisher interface {
	Publish(ctx context.Context, snapshot models.MPriceSnapshot) error
	Close() error
}
