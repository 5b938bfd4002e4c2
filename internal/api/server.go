package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/homerbot/internal/chat"
)

type Server struct {
	router *chi.Mux
	port   int
	inv    chat.Invoker
	logger *slog.Logger

	// turnMu serializes chat turns; mu guards session and is never held
	// across a model call.
	turnMu  sync.Mutex
	mu      sync.Mutex
	session *chat.Session
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

type historyResponse struct {
	ConversationID string         `json:"conversation_id"`
	Messages       []chat.Message `json:"messages"`
}

// NewServer serves a single chat session backed by inv.
func NewServer(port int, inv chat.Invoker, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    port,
		inv:     inv,
		logger:  logger,
		session: chat.NewSession(),
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/chat", s.history)
	router.Post("/api/v1/chat", s.send)
	router.Delete("/api/v1/chat", s.reset)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := historyResponse{
		ConversationID: s.session.ID.String(),
		Messages:       s.session.History(),
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.Lock()
	sess := s.session
	sess.Append("user", req.Message)
	s.mu.Unlock()

	// A reset during the call swaps s.session; the reply then lands in the
	// discarded session only.
	reply, err := s.inv.Invoke(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("chat turn failed", "conversation_id", sess.ID, "error", err)
		if errors.Is(err, chat.ErrNoResponse) {
			writeError(w, http.StatusBadGateway, "the model returned no reply")
			return
		}
		writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}

	s.mu.Lock()
	sess.Append("assistant", reply)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:          reply,
		ConversationID: sess.ID.String(),
	})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.session = chat.NewSession()
	id := s.session.ID.String()
	s.mu.Unlock()

	s.logger.Info("chat session reset", "conversation_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"conversation_id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
