package rpc

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/LeJamon/goPredictd/internal/core/ledger/header"
	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/LeJamon/goPredictd/internal/storage/eventdb"
)

// Request is a JSON-RPC request.
// Format: {"method": "method_name", "params": [{...}]}
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Chain is the node as seen by the rpc layer
type Chain interface {
	Submit(t tx.Transaction) (tx.ApplyResult, error)
	View(fn func(view sle.LedgerView, height uint64, now int64) error) error
	LastHeader() (header.BlockHeader, bool)
}

// EventQuerier reads the event index
type EventQuerier interface {
	Query(ctx context.Context, f eventdb.Filter) ([]eventdb.Record, error)
}

// Services are the backends the methods read and write. Events may be nil
// when no event index is configured.
type Services struct {
	Chain  Chain
	Events EventQuerier
}

// RpcContext contains request-specific information
type RpcContext struct {
	Context  context.Context
	Services *Services
	ClientIP string
}

// MethodHandler is implemented by every rpc method
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
}

// MethodFunc adapts a function to MethodHandler
type MethodFunc func(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)

func (f MethodFunc) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return f(ctx, params)
}

// MethodRegistry for dynamic method registration
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names, sorted
func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// parseParams decodes params into v. Empty params leave v untouched.
func parseParams(params json.RawMessage, v interface{}) *RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}
