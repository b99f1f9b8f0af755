package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gamefi-market/src/models"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// directMessage is a reply addressed to a single client
type directMessage struct {
	client  *Client
	message *models.MLatestData
}

// handleWebsockets is the main Hub loop
func (s *APIServer) handleWebsockets() {
	defer close(s.hubDone)

	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.clientsChanged()
			// Send initial state on connect
			client.send <- s.initialState(nil)

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.clientsChanged()
			}

		case dm := <-s.direct:
			if _, ok := s.clients[dm.client]; !ok {
				continue
			}
			select {
			case dm.client.send <- dm.message:
			default:
				delete(s.clients, dm.client)
				close(dm.client.send)
				s.clientsChanged()
			}

		case message := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestState = message
			s.stateMutex.Unlock()

			for client := range s.clients {
				select {
				case client.send <- client.filter(message):
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
					s.clientsChanged()
				}
			}

		case <-s.quit:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientsChanged()
			return
		}
	}
}

// -----------------------------------------------------------------------------

func (s *APIServer) clientsChanged() {
	s.connections.Store(int64(len(s.clients)))
	s.deps.Metrics.SetWebsocketClients(len(s.clients))
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a tick for every connected client. When the queue is full
// the tick is dropped rather than blocking the engine.
func (s *APIServer) Broadcast(snapshot models.MPriceSnapshot) {
	state := &models.MLatestData{
		Type:      "UPDATE",
		Prices:    models.ClonePrices(snapshot.Prices),
		Timestamp: snapshot.Timestamp.Unix(),
		Metrics:   snapshot.Metrics,
	}

	select {
	case s.broadcast <- state:
	default:
		s.Logger.Warning("Broadcast queue full, tick %d dropped", state.Timestamp)
	}
}

// -----------------------------------------------------------------------------

// initialState is the cached state as an INITIAL message, narrowed to symbols.
// Before the first broadcast it falls back to the engine's current table.
func (s *APIServer) initialState(symbols map[string]bool) *models.MLatestData {
	s.stateMutex.RLock()
	latest := *s.latestState
	s.stateMutex.RUnlock()

	if len(latest.Prices) == 0 && s.deps.Engine != nil {
		latest.Prices = s.deps.Engine.GetCurrentPrices()
		latest.Timestamp = s.deps.Engine.LastUpdate().Unix()
	}
	latest.Type = "INITIAL"
	latest.Prices = filterPrices(latest.Prices, symbols)
	return &latest
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MLatestData, 256),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage applies a subscribe command and answers with the
// narrowed current state. Unparseable messages close the connection.
func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	symbols := client.subscribe(cmd.Symbols)

	// the hub owns client.send, so the reply goes through it
	select {
	case s.direct <- directMessage{client: client, message: s.initialState(symbols)}:
	case <-s.quit:
	}
}
