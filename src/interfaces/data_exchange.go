package interfaces

import "gamefi-market/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger pushes engine updates to external listeners (HTTP/WebSocket).
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// Broadcast pushes a tick to connected listeners and updates the cached state.
	Broadcast(snapshot models.MPriceSnapshot)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
