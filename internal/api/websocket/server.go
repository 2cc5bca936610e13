package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server streams collection progress events to WebSocket clients. Events are
// consumed from the Redis stream the collector publishes to, so the pipeline
// and the WebSocket server can run in separate processes.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache

	cancel context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer(c *cache.RedisCache) *Server {
	return &Server{
		hub:   NewHub(),
		cache: c,
	}
}

// Start starts the WebSocket server and the stream consumer
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.consumeProgress(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/collection/progress", s.handleProgress)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleProgress handles WebSocket connections for collection progress
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// consumeProgress tails the progress stream and broadcasts each event
func (s *Server) consumeProgress(ctx context.Context) {
	client := s.cache.Client()
	lastID := "$" // only new events

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{publisher.ProgressStream, lastID},
			Block:   5 * time.Second, // bounded so shutdown is noticed
			Count:   10,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("⚠️ Progress stream read failed: %v", err)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				if data, ok := msg.Values["data"].(string); ok {
					s.hub.Broadcast([]byte(data))
				}
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
