package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quantumblockchains/ontochat/config"
	qtest "github.com/quantumblockchains/ontochat/internal/testing"
	"github.com/quantumblockchains/ontochat/ontology"
)

const crypto = "http://www.semanticweb.org/quantumblockchains/crypto#"

func newTestServer(t *testing.T, messagesPerMinute int) *ChatServer {
	t.Helper()

	conn := qtest.CreateTestDB(t)
	store := ontology.NewSQLStore(conn, nil)
	_, err := store.InsertTriples(context.Background(), []ontology.Triple{
		{Subject: crypto + "qkd", Predicate: ontology.PredicateLabel, Object: "qkd"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateDefinition, Object: "Quantum Key Distribution protocol."},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateWikipediaEntry, Object: "https://en.wikipedia.org/wiki/Quantum_key_distribution"},
	})
	require.NoError(t, err)

	catalog, err := ontology.NewCatalog(context.Background(), store)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.AllowedOrigins = []string{"http://localhost"}
	cfg.Server.MessagesPerMinute = messagesPerMinute
	cfg.Answer.MaxConcepts = 5

	srv := NewChatServer(cfg, ontology.NewKnowledgeQuery(store, nil), catalog, zap.NewNop().Sugar())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

func TestNewChatServer(t *testing.T) {
	srv := newTestServer(t, 30)

	assert.NotNil(t, srv.processor)
	assert.NotNil(t, srv.composer)
	assert.NotNil(t, srv.clients)
}

func TestAnswerPipeline(t *testing.T) {
	srv := newTestServer(t, 30)

	answer := srv.Answer(context.Background(), "What is QKD?")
	assert.Contains(t, answer, "Quantum Key Distribution protocol.")
	assert.Contains(t, answer, "Would you like to know anything else?")
}

func TestHandleAsk(t *testing.T) {
	srv := newTestServer(t, 30)

	t.Run("answers a question", func(t *testing.T) {
		body, _ := json.Marshal(askRequest{Question: "What is QKD?"})
		req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		srv.HandleAsk(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp askResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Answer, "Quantum Key Distribution protocol.")
	})

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
		rec := httptest.NewRecorder()

		srv.HandleAsk(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("rejects empty question", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"  "}`))
		rec := httptest.NewRecorder()

		srv.HandleAsk(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ref_kind override narrows references", func(t *testing.T) {
		body, _ := json.Marshal(askRequest{Question: "tell me about qkd", RefKind: "wiki"})
		req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		srv.HandleAsk(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp askResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Answer, "Wikipedia Entry")
	})

	t.Run("rejects unknown ref_kind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"qkd","ref_kind":"carrier-pigeon"}`))
		rec := httptest.NewRecorder()

		srv.HandleAsk(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		srv.HandleAsk(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, 30)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.HandleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCheckOrigin(t *testing.T) {
	srv := newTestServer(t, 30)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"", true},
		{"http://localhost:8711", true},
		{"http://localhost", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.allowed, srv.checkOrigin(req), "origin: %q", tt.origin)
	}
}

func TestWebSocketChat(t *testing.T) {
	srv := newTestServer(t, 30)
	go srv.Run()

	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// First message is the session info
	var session map[string]interface{}
	require.NoError(t, conn.ReadJSON(&session))
	assert.Equal(t, "session", session["type"])
	assert.NotEmpty(t, session["session_id"])

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "ask", Text: "What is QKD?"}))

	var answer outboundMessage
	require.NoError(t, conn.ReadJSON(&answer))
	assert.Equal(t, "answer", answer.Type)
	assert.Contains(t, answer.Answer, "Quantum Key Distribution protocol.")

	// History holds both turns of the exchange
	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "history"}))
	var history outboundMessage
	require.NoError(t, conn.ReadJSON(&history))
	assert.Equal(t, "history", history.Type)
	require.Len(t, history.History, 2)
	assert.Equal(t, "user", history.History[0].Role)
	assert.Equal(t, "assistant", history.History[1].Role)
}

func TestWebSocketRateLimit(t *testing.T) {
	srv := newTestServer(t, 1)
	go srv.Run()

	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var session map[string]interface{}
	require.NoError(t, conn.ReadJSON(&session))

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "ask", Text: "What is QKD?"}))
	var first outboundMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "answer", first.Type)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "ask", Text: "What is QKD?"}))
	var second outboundMessage
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "error", second.Type)
	assert.Contains(t, second.Error, "too quickly")
}
