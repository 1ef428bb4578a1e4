package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/Alex7k/websocket-chat/domain/event"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsPongTimeout  = 60 * time.Second
)

// handleWebSocket upgrades the connection, registers a sink for the fan-out
// worker and streams channel events until the client disconnects. The
// channel surfaces no errors: failed posts never reach the broadcaster.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || lo.Contains(s.allowedOrigins, origin)
		},
	}

	// Resolve before upgrading: cookies can only be set on the handshake
	// response.
	if _, err := s.resolveIdentity(w, r); err != nil {
		s.writeError(w, http.StatusInternalServerError, KindServer, "could not resolve identity")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sink := newWebsocketSink(s.connectionBufferSize)
	subscriberID := uuid.NewString()
	s.chat.Subscribe(subscriberID, sink)
	defer s.chat.Unsubscribe(subscriberID)

	// Reader goroutine: the channel is server-to-client only, so reads exist
	// purely to notice disconnects and answer pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case evt := <-sink.events:
			frame, ok := toChannelEvent(evt)
			if !ok {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(frame); err != nil {
				s.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func toChannelEvent(evt event.DomainEvent) (ChannelEvent, bool) {
	switch e := evt.(type) {
	case event.MessagePosted:
		return ChannelEvent{Type: EventNewMessage, Payload: e.Message.ToDTO()}, true
	case event.PresenceChanged:
		return ChannelEvent{Type: EventPresenceCount, Payload: e.Count}, true
	default:
		return ChannelEvent{}, false
	}
}
