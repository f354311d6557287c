package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/fintrack/fintrack-api/middleware"
)

// WSHandler pushes live ledger-change signals to a user's open dashboards.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so cloud proxies do not drop idle dashboards
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("✅ Feed client connected for user: %v", userID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Feed client disconnected for user: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and tags the session with the user id.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return
	}

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every open session of the user that their ledger
// changed.
func (h *WSHandler) BroadcastUpdate(userID, updateType string) {
	msg := []byte(`{"type": "` + updateType + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("user_id")
		return exists && id == userID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to user %s: %v", userID, err)
	}
}
