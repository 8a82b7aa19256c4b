package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/go-i2p/logger"
)

// RPCHandler processes one JSON-RPC method. The returned value is
// serialized as the response result; errors are mapped onto JSON-RPC
// error codes, so handlers may return cipher errors unchanged.
type RPCHandler interface {
	Handle(ctx context.Context, params json.RawMessage) (interface{}, error)
}

// RPCHandlerFunc adapts a plain function to RPCHandler.
type RPCHandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Handle calls f.
func (f RPCHandlerFunc) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return f(ctx, params)
}

// MethodRegistry maps method names to handlers. Safe for concurrent use.
//
//	registry := NewMethodRegistry()
//	registry.Register("Echo", NewEchoHandler())
//	result, err := registry.Dispatch(ctx, "Echo", params)
type MethodRegistry struct {
	handlers map[string]RPCHandler
	mu       sync.RWMutex
}

// NewMethodRegistry creates an empty registry.
func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		handlers: make(map[string]RPCHandler),
	}
}

// Register adds or replaces the handler for method.
func (mr *MethodRegistry) Register(method string, handler RPCHandler) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	mr.handlers[method] = handler

	log.WithFields(logger.Fields{
		"at":     "(MethodRegistry).Register",
		"method": method,
	}).Debug("registered RPC method")
}

// ListMethods returns the registered method names in sorted order.
func (mr *MethodRegistry) ListMethods() []string {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	methods := make([]string, 0, len(mr.handlers))
	for method := range mr.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Dispatch invokes the handler registered for method. Errors are always
// *RPCError: ErrCodeMethodNotFound for unknown methods, otherwise the
// handler's error mapped by toRPCError.
func (mr *MethodRegistry) Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	mr.mu.RLock()
	handler, exists := mr.handlers[method]
	mr.mu.RUnlock()

	if !exists {
		log.WithFields(logger.Fields{
			"at":     "(MethodRegistry).Dispatch",
			"method": method,
			"reason": "method_not_found",
		}).Warn("attempted to call unregistered method")

		return nil, NewRPCError(ErrCodeMethodNotFound, fmt.Sprintf("method %q not found", method))
	}

	log.WithFields(logger.Fields{
		"at":     "(MethodRegistry).Dispatch",
		"method": method,
	}).Debug("dispatching RPC method")

	result, err := handler.Handle(ctx, params)
	if err != nil {
		rpcErr := toRPCError(err)
		log.WithFields(logger.Fields{
			"at":     "(MethodRegistry).Dispatch",
			"method": method,
			"code":   rpcErr.Code,
			"reason": err.Error(),
		}).Warn("method handler returned error")
		return nil, rpcErr
	}

	return result, nil
}

// HandleParsedRequest dispatches an already parsed request.
func (mr *MethodRegistry) HandleParsedRequest(ctx context.Context, req *Request) *Response {
	if req.IsNotification() {
		log.WithFields(logger.Fields{
			"at":     "(MethodRegistry).HandleParsedRequest",
			"method": req.Method,
		}).Debug("received notification (no response will be sent)")

		_, _ = mr.Dispatch(ctx, req.Method, req.Params)
		return nil
	}

	result, err := mr.Dispatch(ctx, req.Method, req.Params)
	if err != nil {
		return NewErrorResponse(req.ID, toRPCError(err))
	}

	return NewSuccessResponse(req.ID, result)
}
