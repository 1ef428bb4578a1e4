// Package api exposes the chat service over HTTP and a WebSocket channel.
// It contains no business logic: handlers translate between the transport
// and the ingress pipeline.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/process"

	"github.com/Alex7k/websocket-chat/domain"
	apperrors "github.com/Alex7k/websocket-chat/errors"
	"github.com/Alex7k/websocket-chat/identity"
	"github.com/Alex7k/websocket-chat/repositories"
	"github.com/Alex7k/websocket-chat/services"
)

type Server struct {
	chat     services.IChatService
	resolver *identity.Resolver
	store    repositories.IMessageRepository
	router   *http.ServeMux
	log      *slog.Logger

	allowedOrigins       []string
	cookieSecure         bool
	cookieMaxAge         time.Duration
	connectionBufferSize int

	proc *process.Process
}

type ServerOptions struct {
	AllowedOrigins       []string
	CookieSecure         bool
	CookieMaxAge         time.Duration
	ConnectionBufferSize int
}

func NewServer(
	chat services.IChatService,
	resolver *identity.Resolver,
	store repositories.IMessageRepository,
	opts ServerOptions,
	log *slog.Logger,
) *Server {
	s := &Server{
		chat:                 chat,
		resolver:             resolver,
		store:                store,
		router:               http.NewServeMux(),
		log:                  log,
		allowedOrigins:       opts.AllowedOrigins,
		cookieSecure:         opts.CookieSecure,
		cookieMaxAge:         opts.CookieMaxAge,
		connectionBufferSize: opts.ConnectionBufferSize,
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = p
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Handle("GET /health", s.wrap(s.handleHealth))
	s.router.Handle("GET /identity", s.wrap(s.handleIdentity))
	s.router.Handle("GET /messages", s.wrap(s.handleGetMessages))
	s.router.Handle("POST /messages", s.wrap(s.handlePostMessage))
	s.router.Handle("GET /ws", s.recoverMiddleware(http.HandlerFunc(s.handleWebSocket)))
}

func (s *Server) wrap(h http.HandlerFunc) http.Handler {
	return s.recoverMiddleware(s.corsMiddleware(h))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// resolveIdentity reads the identity cookie and resolves it to a username,
// setting a fresh cookie when one had to be minted. Identity issuance is the
// only side effect of the read paths, and it is idempotent for a client that
// already holds a valid token.
func (s *Server) resolveIdentity(w http.ResponseWriter, r *http.Request) (string, error) {
	username, issued, err := s.resolver.Resolve(identityCookie(r))
	if err != nil {
		return "", err
	}
	if issued != "" {
		s.setIdentityCookie(w, issued)
	}
	return username, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "ok",
		Database:    "reachable",
		Connections: s.chat.PresenceCount(),
	}
	if s.proc != nil {
		if mem, err := s.proc.MemoryInfo(); err == nil {
			resp.RAMBytes = mem.RSS
		}
		if cpu, err := s.proc.CPUPercent(); err == nil {
			resp.CPUPercent = cpu
		}
	}

	if err := s.store.Ping(); err != nil {
		s.log.Error("health check failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		s.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	username, err := s.resolveIdentity(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, KindServer, "could not resolve identity")
		return
	}
	s.writeJSON(w, http.StatusOK, IdentityResponse{Username: username})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	if _, err := s.resolveIdentity(w, r); err != nil {
		s.writeError(w, http.StatusInternalServerError, KindServer, "could not resolve identity")
		return
	}

	limit := repositories.MaxHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	messages, err := s.chat.GetMessages(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, KindServer, "could not load messages")
		return
	}
	s.writeJSON(w, http.StatusOK, MessagesResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) domain.MessageDTO { return m.ToDTO() }),
	})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	username, err := s.resolveIdentity(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, KindServer, "could not resolve identity")
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, KindValidation, "request body must be JSON with a text field")
		return
	}
	if err := ValidatePostMessage(req); err != nil {
		s.writeError(w, http.StatusBadRequest, KindValidation, "text is required")
		return
	}

	stored, err := s.chat.PostMessage(r.Context(), services.PostMessageCommand{
		ClientAddr:  clientAddr(r),
		Username:    username,
		DisplayName: req.DisplayName,
		Text:        req.Text,
	})
	if err != nil {
		s.writePipelineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, stored.ToDTO())
}

// writePipelineError maps each pipeline failure exit to its response. Store
// failures are surfaced generically; the detail stays in the server logs.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyMessage),
		errors.Is(err, apperrors.ErrMessageTooLong),
		errors.Is(err, apperrors.ErrDisplayNameTooLong):
		s.writeError(w, http.StatusBadRequest, KindValidation, err.Error())
	case errors.Is(err, apperrors.ErrRateLimited):
		s.writeError(w, http.StatusTooManyRequests, KindRateLimited, "too many messages, retry after the window elapses")
	default:
		s.log.Error("message post failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, KindServer, "could not store message")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: kind, Message: message})
}

// clientAddr extracts the peer host, without the ephemeral port, so one
// client maps to one rate-limit key across requests.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
