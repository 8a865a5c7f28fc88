package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// The server binds to loopback by default; origin checks belong to
		// whatever reverse proxy exposes it further.
		return true
	},
}

// wsMessage is one client request over the realtime channel.
type wsMessage struct {
	Command string `json:"command"`
}

// handleWebSocket runs a command-per-message loop: each incoming JSON command
// is processed and answered with the full envelope on the same connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.Info().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		resp := s.orch.ProcessCommand(r.Context(), msg.Command)
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}
