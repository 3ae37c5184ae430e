package trpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// PathPrefix is where the transport is mounted on the HTTP edge.
const PathPrefix = "/api/trpc"

// ProcedureType distinguishes reads (GET) from writes (POST).
type ProcedureType string

const (
	Query    ProcedureType = "query"
	Mutation ProcedureType = "mutation"
)

// HandlerFunc implements a procedure. A nil output is sent as "no data".
type HandlerFunc[C any] func(ctx context.Context, c C, input json.RawMessage) (any, error)

// Procedure is a registered remote procedure.
type Procedure[C any] struct {
	Type    ProcedureType
	Handler HandlerFunc[C]
}

// Router maps dotted procedure paths to procedures sharing a context type C.
type Router[C any] struct {
	procedures map[string]Procedure[C]

	// ErrorFields adds driver-specific diagnostics to failure logs.
	ErrorFields func(error) map[string]any
}

// NewRouter constructs an empty Router.
func NewRouter[C any]() *Router[C] {
	return &Router[C]{procedures: make(map[string]Procedure[C])}
}

// Query registers a read procedure.
func (r *Router[C]) Query(path string, h HandlerFunc[C]) *Router[C] {
	return r.add(path, Procedure[C]{Type: Query, Handler: h})
}

// Mutation registers a write procedure.
func (r *Router[C]) Mutation(path string, h HandlerFunc[C]) *Router[C] {
	return r.add(path, Procedure[C]{Type: Mutation, Handler: h})
}

// Merge mounts every procedure of sub under prefix.
func (r *Router[C]) Merge(prefix string, sub *Router[C]) *Router[C] {
	for path, proc := range sub.procedures {
		r.add(prefix+"."+path, proc)
	}
	return r
}

func (r *Router[C]) add(path string, proc Procedure[C]) *Router[C] {
	if _, exists := r.procedures[path]; exists {
		panic(fmt.Sprintf("trpc: duplicate procedure %q", path))
	}
	r.procedures[path] = proc
	return r
}

// Paths lists registered procedure paths in sorted order.
func (r *Router[C]) Paths() []string {
	out := make([]string, 0, len(r.procedures))
	for path := range r.procedures {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Call resolves and invokes a procedure.
func (r *Router[C]) Call(ctx context.Context, typ ProcedureType, path string, c C, input json.RawMessage) (any, error) {
	proc, ok := r.procedures[path]
	if !ok {
		return nil, NewError(CodeNotFound, fmt.Sprintf("No %q-procedure on path %q", typ, path))
	}
	if proc.Type != typ {
		return nil, NewError(CodeMethodNotSupported, fmt.Sprintf("Unsupported %s call to %s procedure at path %q", typ, proc.Type, path))
	}
	return proc.Handler(ctx, c, input)
}
