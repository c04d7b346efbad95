package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/quantumblockchains/ontochat/internal/version"
	"github.com/quantumblockchains/ontochat/ontology"
)

// HandleWebSocket upgrades the connection and starts the client pumps
func (s *ChatServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("WebSocket upgrade failed", "error", err.Error())
		return
	}

	client := &Client{
		server:  s,
		conn:    conn,
		send:    make(chan outboundMessage, sendBuffer),
		id:      uuid.NewString(),
		limiter: newMessageLimiter(s.cfg.Server.MessagesPerMinute),
	}

	// Send session info BEFORE starting writePump (avoid concurrent writes)
	sessionMsg := map[string]interface{}{
		"type":       "session",
		"session_id": client.id,
		"version":    version.Get().Version,
	}
	if err := conn.WriteJSON(sessionMsg); err != nil {
		s.logger.Debugw("Failed to send session info",
			"client_id", client.id,
			"error", err,
		)
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// newMessageLimiter builds the per-connection question limiter.
// Non-positive config disables limiting.
func newMessageLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// askRequest is the one-shot question payload. RefKind optionally
// narrows reference results (pdf, doi, url, wiki, paper) regardless of
// the question's wording.
type askRequest struct {
	Question string `json:"question"`
	RefKind  string `json:"ref_kind,omitempty"`
}

// askResponse carries the formatted answer
type askResponse struct {
	Answer string `json:"answer"`
}

// HandleAsk answers a single question without a chat session
func (s *ChatServer) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}
	kind, ok := ontology.ParseRefKind(req.RefKind)
	if !ok {
		http.Error(w, "unknown ref_kind", http.StatusBadRequest)
		return
	}

	answerText := s.AnswerWithRefKind(r.Context(), req.Question, kind)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(askResponse{Answer: answerText}); err != nil {
		s.logger.Warnw("Failed to encode answer", "error", err.Error())
	}
}

// HandleHealth reports server liveness and build info
func (s *ChatServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": version.Get().Version,
	})
}

// checkOrigin allows same-host requests plus any configured origin.
// Prefix matching lets a configured origin cover any port.
func (s *ChatServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}
