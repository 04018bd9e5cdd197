package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/renewal"
	"github.com/rpggio/hourbank/internal/mcp"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, p access.Principal, method string, params json.RawMessage) (any, error)
}

// RenewalRunner runs one contract renewal batch.
type RenewalRunner interface {
	Run(ctx context.Context, asOf time.Time) (renewal.Summary, error)
}

// Options wires the HTTP surface.
type Options struct {
	Handler MCPHandler
	// Auth authenticates /rpc and /jobs. Nil leaves them open, which only
	// makes sense behind another auth layer.
	Auth    func(http.Handler) http.Handler
	Renewal RenewalRunner
	// MCP is the streamable MCP handler mounted at /mcp. It authenticates
	// on its own.
	MCP    http.Handler
	Today  func() time.Time
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	renewal RenewalRunner
	today   func() time.Time
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	srv := &Server{
		handler: opts.Handler,
		renewal: opts.Renewal,
		today:   opts.Today,
		logger:  opts.Logger,
	}
	if srv.today == nil {
		srv.today = func() time.Time { return billing.Day(time.Now()) }
	}
	if srv.logger == nil {
		srv.logger = slog.Default()
	}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Post("/rpc", srv.handleRPC)
		if opts.Renewal != nil {
			r.Post("/jobs/renew-contracts", srv.handleRenew)
		}
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			WriteError(w, req.ID, rpcErr.Code, rpcErr.Message, nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	p, ok := access.FromContext(r.Context())
	if !ok {
		http.Error(w, "missing principal", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), p, req.Method, req.Params)
	if err != nil {
		var apiErr *mcp.APIError
		if errors.As(err, &apiErr) {
			WriteError(w, req.ID, rpcCode(apiErr.Code), apiErr.Message, apiErr)
			return
		}
		s.logger.Error("rpc call failed", "method", req.Method, "user_id", p.UserID, "error", err)
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) handleRenew(w http.ResponseWriter, r *http.Request) {
	p, _ := access.FromContext(r.Context())
	if err := p.RequireAdmin(); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	asOf := s.today()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		d, err := billing.ParseDate(raw)
		if err != nil {
			http.Error(w, "as_of must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		asOf = d
	}

	summary, err := s.renewal.Run(r.Context(), asOf)
	status := http.StatusOK
	if err != nil {
		s.logger.Error("renewal job failed", "as_of", billing.FormatDate(asOf), "error", err)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(summary)
}

func rpcCode(code string) int {
	switch code {
	case "UNKNOWN_METHOD":
		return ErrMethodNotFound
	case "INVALID_PARAMS", "VALIDATION_FAILED":
		return ErrInvalidParams
	default:
		return ErrApplication
	}
}
