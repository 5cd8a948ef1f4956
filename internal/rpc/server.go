// Package rpc serves the node over HTTP: a JSON-RPC endpoint for queries
// and submissions, a websocket event stream and a health check.
package rpc

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxBodySize caps a JSON-RPC request body
const maxBodySize = 1 << 20

// Server handles HTTP JSON-RPC requests
type Server struct {
	registry *MethodRegistry
	services *Services
	hub      *Hub
	wsPath   string
	logger   *slog.Logger
}

// NewServer creates a new RPC server. hub may be nil to disable the
// websocket stream.
func NewServer(services *Services, hub *Hub, wsPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	server := &Server{
		registry: NewMethodRegistry(),
		services: services,
		hub:      hub,
		wsPath:   wsPath,
		logger:   logger.With(slog.String("component", "rpc")),
	}

	// Register all RPC methods
	server.registerAllMethods()
	if hub != nil {
		hub.dispatch = server.executeMethod
		hub.services = services
	}

	return server
}

// Handler routes JSON-RPC, the health check and the websocket stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	mux.HandleFunc("/health", s.handleHealth)
	if s.hub != nil && s.wsPath != "" {
		mux.Handle(s.wsPath, s.hub)
	}
	return mux
}

// Methods lists the registered method names
func (s *Server) Methods() []string {
	return s.registry.List()
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetRequest(w, r)
	case http.MethodPost:
		s.handlePostRequest(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRequest serves parameterless methods named by ?command=
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}
	result, rpcErr := s.executeMethod(method, nil, s.newContext(r))
	s.writeResponse(w, nil, result, rpcErr)
}

// handlePostRequest processes POST requests with a JSON-RPC payload
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, nil, RpcErrorInternal("Failed to read request body"))
		return
	}
	defer r.Body.Close()

	var request Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, NewRpcError(RpcPARSE_ERROR, "jsonInvalid", "Invalid JSON: "+err.Error()))
		return
	}
	if request.Method == "" {
		s.writeError(w, nil, NewRpcError(RpcMISSING_COMMAND, "missingCommand", "Missing method field"))
		return
	}

	// params is an array holding one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	result, rpcErr := s.executeMethod(request.Method, params, s.newContext(r))

	// Echo the request on errors
	var requestObj interface{}
	if rpcErr != nil {
		reqMap := map[string]interface{}{}
		if params != nil {
			_ = json.Unmarshal(params, &reqMap)
		}
		reqMap["command"] = request.Method
		requestObj = reqMap
	}
	s.writeResponse(w, requestObj, result, rpcErr)
}

func (s *Server) newContext(r *http.Request) *RpcContext {
	return &RpcContext{
		Context:  r.Context(),
		Services: s.services,
		ClientIP: getClientIP(r),
	}
}

// executeMethod executes an RPC method with the given parameters
func (s *Server) executeMethod(method string, params json.RawMessage, ctx *RpcContext) (interface{}, *RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, RpcErrorMethodNotFound(method)
	}
	result, rpcErr := handler.Handle(ctx, params)
	if rpcErr != nil && rpcErr.Code == RpcINTERNAL {
		s.logger.Error("rpc method failed",
			slog.String("method", method),
			slog.String("client", ctx.ClientIP),
			slog.String("error", rpcErr.Message),
		)
	}
	return result, rpcErr
}

// writeResponse writes {"result": {..., "status": "success"|"error"}}
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *RpcError) {
	var resultObj map[string]interface{}
	if rpcErr != nil {
		resultObj = map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
	} else if m, ok := result.(map[string]interface{}); ok {
		m["status"] = "success"
		resultObj = m
	} else {
		resultObj = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	responseData, err := json.Marshal(map[string]interface{}{"result": resultObj})
	if err != nil {
		s.logger.Error("failed to marshal response", slog.String("error", err.Error()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(responseData)
}

func (s *Server) writeError(w http.ResponseWriter, request interface{}, rpcErr *RpcError) {
	s.writeResponse(w, request, nil, rpcErr)
}

// handleHealth reports whether the node has produced a block
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	last, ok := s.services.Chain.LastHeader()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"starting"}`))
		return
	}
	body, _ := json.Marshal(map[string]interface{}{
		"status": "ok",
		"height": last.Height,
	})
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
