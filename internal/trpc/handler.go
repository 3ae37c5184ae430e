package trpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"resume-viewer/internal/shared/metrics"
	"resume-viewer/internal/shared/server/middleware"
	"resume-viewer/internal/shared/telemetry"
)

const maxBodySize = 1 << 20 // 1MB

type response struct {
	Result *resultBody `json:"result,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

type resultBody struct {
	Data any `json:"data,omitempty"`
}

type errorBody struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Code       Code    `json:"code"`
	HTTPStatus int     `json:"httpStatus"`
	Path       string  `json:"path,omitempty"`
	Issues     []Issue `json:"issues,omitempty"`
}

// Handler serves the router over HTTP. newContext is invoked once per
// procedure call, so every call in a batch gets its own context.
func (r *Router[C]) Handler(newContext func(*gin.Context) C) gin.HandlerFunc {
	return func(c *gin.Context) {
		paths := strings.Split(strings.Trim(c.Param("path"), "/"), ",")
		batch := isBatch(c.Query("batch"))
		if !batch {
			paths = []string{strings.Join(paths, ",")}
		}
		c.Set(middleware.ProcedureKey, strings.Join(paths, ","))

		var typ ProcedureType
		switch c.Request.Method {
		case http.MethodGet:
			typ = Query
		case http.MethodPost:
			typ = Mutation
		default:
			r.writeFailure(c, batch, paths, NewError(CodeMethodNotSupported, "Unsupported HTTP method "+c.Request.Method))
			return
		}

		raw, perr := readInput(c, typ)
		if perr != nil {
			r.writeFailure(c, batch, paths, perr)
			return
		}

		out := make([]response, len(paths))
		statuses := make([]int, len(paths))
		for i, path := range paths {
			input := raw
			if batch {
				input = json.RawMessage(gjson.GetBytes(raw, strconv.Itoa(i)).Raw)
			}
			out[i], statuses[i] = r.invoke(c.Request.Context(), typ, path, newContext(c), input)
		}

		if batch {
			c.JSON(batchStatus(statuses), out)
			return
		}
		c.JSON(statuses[0], out[0])
	}
}

func (r *Router[C]) invoke(ctx context.Context, typ ProcedureType, path string, pc C, input json.RawMessage) (response, int) {
	start := time.Now()
	data, err := r.Call(ctx, typ, path, pc, input)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		te := AsError(err)
		metrics.ObserveProcedure(path, elapsed, string(te.Code))
		r.logFailure(path, te)
		return errorResponse(path, te), te.Code.HTTPStatus()
	}
	metrics.ObserveProcedure(path, elapsed, "")
	return response{Result: &resultBody{Data: data}}, http.StatusOK
}

func (r *Router[C]) logFailure(path string, te *Error) {
	fields := map[string]any{
		"path":    path,
		"code":    string(te.Code),
		"message": te.Message,
	}
	if te.Code != CodeInternal {
		telemetry.Debug("trpc.error", fields)
		return
	}
	if r.ErrorFields != nil && te.Cause != nil {
		for k, v := range r.ErrorFields(te.Cause) {
			fields[k] = v
		}
	}
	telemetry.Error("trpc.error", fields)
}

func (r *Router[C]) writeFailure(c *gin.Context, batch bool, paths []string, te *Error) {
	for _, path := range paths {
		metrics.ObserveProcedure(path, 0, string(te.Code))
	}
	if !batch {
		c.JSON(te.Code.HTTPStatus(), errorResponse(paths[0], te))
		return
	}
	out := make([]response, len(paths))
	for i, path := range paths {
		out[i] = errorResponse(path, te)
	}
	c.JSON(te.Code.HTTPStatus(), out)
}

func errorResponse(path string, te *Error) response {
	return response{Error: &errorBody{
		Message: te.Message,
		Code:    te.Code.JSONRPCCode(),
		Data: errorData{
			Code:       te.Code,
			HTTPStatus: te.Code.HTTPStatus(),
			Path:       path,
			Issues:     te.Issues,
		},
	}}
}

// readInput returns the raw JSON input: the "input" query parameter for
// queries and the request body for mutations.
func readInput(c *gin.Context, typ ProcedureType) (json.RawMessage, *Error) {
	var raw []byte
	if typ == Query {
		raw = []byte(c.Query("input"))
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize+1))
		if err != nil {
			return nil, &Error{Code: CodeParseError, Message: "unable to read request body", Cause: err}
		}
		if len(body) > maxBodySize {
			return nil, NewError(CodeBadRequest, "request body too large")
		}
		raw = body
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, NewError(CodeParseError, "input is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func isBatch(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// batchStatus is the shared status of every call, or 207 when they differ.
func batchStatus(statuses []int) int {
	if len(statuses) == 0 {
		return http.StatusOK
	}
	first := statuses[0]
	for _, s := range statuses[1:] {
		if s != first {
			return http.StatusMultiStatus
		}
	}
	return first
}
