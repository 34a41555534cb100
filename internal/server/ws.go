package server

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ggonzalez94/agent-gateway/internal/model"
)

// handleWebSocket upgrades the connection and echoes every inbound text
// frame: parsed JSON comes back under status "received", anything else gets
// an "Invalid JSON" error frame. The loop ends on the first transport error;
// there is no session state to release beyond the connection itself.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}

		var reply model.WSReply
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			reply = model.WSReply{Status: "error", Message: "Invalid JSON"}
		} else {
			reply = model.WSReply{Status: "received", Message: parsed}
		}

		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}
