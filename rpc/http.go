package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"syndeo/core/events"
	"syndeo/native/rewards"
	"syndeo/state"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeLedgerError    = -32030
)

// TokenEnv names the environment variable holding the static bearer token
// required for mutating methods.
const TokenEnv = "SYNDEO_RPC_TOKEN"

// SecretEnv names the environment variable holding the HMAC secret for JWT
// bearer authentication. When set it takes precedence over the static token.
const SecretEnv = "SYNDEO_AUTH_SECRET"

// Server exposes the reward ledger over JSON-RPC 2.0. One mutex serialises
// every call so the engine sees the single-threaded execution model it was
// written for.
type Server struct {
	mu     sync.Mutex
	engine *rewards.Engine
	state  *state.Manager
	events *events.Buffer

	authToken   string
	jwtSecret   []byte
	jwtIssuer   string
	jwtAudience string
	limiter     *rateLimiter
}

// Option adjusts optional server settings.
type Option func(*Server)

// WithJWTClaims pins the issuer and audience accepted on JWT bearer tokens.
func WithJWTClaims(issuer, audience string) Option {
	return func(s *Server) {
		s.jwtIssuer = issuer
		s.jwtAudience = audience
	}
}

// WithRateLimit replaces the default per-client request budget on the RPC
// endpoint. A non-positive perMinute disables throttling.
func WithRateLimit(perMinute float64, burst int) Option {
	return func(s *Server) {
		s.limiter = newRateLimiter(perMinute, burst)
	}
}

// NewServer wires the engine, account state and event buffer into an RPC
// server. Credentials are taken from the environment.
func NewServer(engine *rewards.Engine, st *state.Manager, buf *events.Buffer, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		state:     st,
		events:    buf,
		authToken: strings.TrimSpace(os.Getenv(TokenEnv)),
		limiter:   newRateLimiter(defaultRatePerMinute, defaultRateBurst),
	}
	if secret := strings.TrimSpace(os.Getenv(SecretEnv)); secret != "" {
		s.jwtSecret = []byte(secret)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router mounts the RPC endpoint together with health and metrics handlers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Method(http.MethodPost, "/rpc", s.limiter.middleware(otelhttp.NewHandler(http.HandlerFunc(s.handle), "rpc")))
	return r
}

// Start serves the router until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeLedgerError maps an engine error onto the JSON-RPC taxonomy.
func writeLedgerError(w http.ResponseWriter, id interface{}, err error) {
	status := http.StatusBadRequest
	code := codeLedgerError
	if errors.Is(err, rewards.ErrAdminRequired) {
		status = http.StatusForbidden
		code = codeUnauthorized
	}
	writeError(w, status, id, code, err.Error(), nil)
}

// handle is the main request handler that routes to specific method handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	switch req.Method {
	case "syndeo_addMember":
		s.authenticated(w, r, req, s.handleAddMember)
	case "syndeo_removeMember":
		s.authenticated(w, r, req, s.handleRemoveMember)
	case "syndeo_setAdmin":
		s.authenticated(w, r, req, s.handleSetAdmin)
	case "syndeo_setMaxPointsPerSender":
		s.authenticated(w, r, req, s.handleSetMaxPointsPerSender)
	case "syndeo_award":
		s.authenticated(w, r, req, s.handleAward)
	case "syndeo_distributeRewards":
		s.authenticated(w, r, req, s.handleDistributeRewards)
	case "pool_deposit":
		s.authenticated(w, r, req, s.handlePoolDeposit)
	case "syndeo_getRewardsSummary":
		s.handleGetRewardsSummary(w, r, req)
	case "syndeo_getAvailablePoints":
		s.handleGetAvailablePoints(w, r, req)
	case "syndeo_getMaxPointsPerSender":
		s.handleGetMaxPointsPerSender(w, r, req)
	case "syndeo_getBalance":
		s.handleGetBalance(w, r, req)
	case "syndeo_listMembers":
		s.handleListMembers(w, r, req)
	case "syndeo_listEvents":
		s.handleListEvents(w, r, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
	}
}

type handlerFunc func(http.ResponseWriter, *http.Request, *RPCRequest)

// authenticated gates mutating methods behind bearer credentials.
func (s *Server) authenticated(w http.ResponseWriter, r *http.Request, req *RPCRequest, next handlerFunc) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	next(w, r, req)
}
