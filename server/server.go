// Package server exposes the question answering pipeline over HTTP: a
// websocket chat endpoint with per-connection history, a one-shot JSON
// ask endpoint, and the embedded chat page.
package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quantumblockchains/ontochat/answer"
	"github.com/quantumblockchains/ontochat/ask"
	"github.com/quantumblockchains/ontochat/config"
	"github.com/quantumblockchains/ontochat/ontology"
)

//go:embed static
var webFiles embed.FS

// MaxClients caps concurrent websocket connections
const MaxClients = 64

// ChatServer runs the chat hub: it owns the client set, upgrades
// websocket connections, and answers one-shot HTTP questions.
type ChatServer struct {
	cfg       *config.Config
	processor *ask.Processor
	composer  *answer.Composer

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	httpServer *http.Server
	logger     *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewChatServer wires the pipeline into a server. The catalog and query
// layer are built once at startup; the server never mutates them.
func NewChatServer(cfg *config.Config, query *ontology.KnowledgeQuery, catalog *ontology.Catalog, logger *zap.SugaredLogger) *ChatServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatServer{
		cfg:        cfg,
		processor:  ask.NewProcessor(catalog, logger),
		composer:   answer.NewComposer(query, logger, cfg.Answer.MaxConcepts),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Answer runs one question through the full pipeline and returns the
// formatted answer with bare URLs turned into anchors.
func (s *ChatServer) Answer(ctx context.Context, question string) string {
	return s.AnswerWithRefKind(ctx, question, ontology.RefKindAny)
}

// AnswerWithRefKind answers a question with an explicit reference kind,
// overriding whatever the classifier inferred from the text.
func (s *ChatServer) AnswerWithRefKind(ctx context.Context, question string, kind ontology.RefKind) string {
	parsed := s.processor.Process(question)
	if kind != ontology.RefKindAny {
		parsed.Intents.Add(ask.IntentReferences)
		parsed.RefKind = kind
	}
	return Linkify(s.composer.Compose(ctx, parsed))
}

// Run processes client registration until the server context is
// cancelled. Must run in its own goroutine before ListenAndServe.
func (s *ChatServer) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Chat hub stopping")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		}
	}
}

func (s *ChatServer) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}
	s.clients[client] = true
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		"client_id", client.id,
		"total_clients", total,
	)
}

func (s *ChatServer) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, client)
	total := len(s.clients)
	s.mu.Unlock()

	client.close()
	s.logger.Infow("Client disconnected",
		"client_id", client.id,
		"total_clients", total,
	)
}

// Routes builds the server's HTTP mux
func (s *ChatServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/api/ask", s.HandleAsk)
	mux.HandleFunc("/api/health", s.HandleHealth)

	static, err := fs.Sub(webFiles, "static")
	if err != nil {
		// embed.FS with a fixed subdirectory cannot fail at runtime
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	return mux
}

// ListenAndServe starts the hub and blocks serving HTTP until Shutdown
// or a listener error.
func (s *ChatServer) ListenAndServe() error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections outlive request write timeouts
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Infow("Server listening", "port", s.cfg.Server.Port)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, closes every client, and waits
// for the hub to drain.
func (s *ChatServer) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for client := range s.clients {
		client.close()
		delete(s.clients, client)
	}
	s.mu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	return err
}
