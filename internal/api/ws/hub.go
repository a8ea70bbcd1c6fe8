package ws

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/platea/platea/internal/server/middleware"
	redisstore "github.com/platea/platea/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServeResource handles WebSocket connections for a single resource's shift
// events. Subscribes to Redis channel "resource:<tenantID>:<resourceID>" and
// forwards shift lifecycle events to connected clients.
func (h *Hub) ServeResource(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok || ident.TenantID == uuid.Nil {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	resourceIDStr := chi.URLParam(r, "resourceID")
	resourceID, err := uuid.Parse(resourceIDStr)
	if err != nil {
		http.Error(w, "invalid resource id", http.StatusBadRequest)
		return
	}

	h.stream(w, r, redisstore.ResourceChannel(ident.TenantID, resourceID))
}

// ServeTenant handles WebSocket connections for tenant-wide shift events,
// covering every resource the tenant owns. Used by back-office dashboards.
func (h *Hub) ServeTenant(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok || ident.TenantID == uuid.Nil {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	h.stream(w, r, redisstore.TenantChannel(ident.TenantID))
}

// stream upgrades the request to a WebSocket and forwards every message from
// the given Redis channel until either side disconnects.
func (h *Hub) stream(w http.ResponseWriter, r *http.Request, channel string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
