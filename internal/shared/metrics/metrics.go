package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	callsMu    sync.Mutex
	callsTotal = map[string]uint64{}
	errorTotal = map[errorKey]uint64{}

	callDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

type errorKey struct {
	path string
	code string
}

// ObserveProcedure records one procedure call. A non-empty errCode marks it failed.
func ObserveProcedure(path string, durationMs float64, errCode string) {
	if durationMs < 0 {
		durationMs = 0
	}
	callsMu.Lock()
	callsTotal[path]++
	if errCode != "" {
		errorTotal[errorKey{path: path, code: errCode}]++
	}
	callsMu.Unlock()
	callDuration.Observe(durationMs)
}

// Reset clears all recorded values.
func Reset() {
	callsMu.Lock()
	callsTotal = map[string]uint64{}
	errorTotal = map[errorKey]uint64{}
	callsMu.Unlock()
	callDuration.reset()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer

	callsMu.Lock()
	calls := make(map[string]uint64, len(callsTotal))
	for k, v := range callsTotal {
		calls[k] = v
	}
	errs := make(map[errorKey]uint64, len(errorTotal))
	for k, v := range errorTotal {
		errs[k] = v
	}
	callsMu.Unlock()

	fmt.Fprintf(&buf, "# HELP trpc_calls_total Total procedure calls\n")
	fmt.Fprintf(&buf, "# TYPE trpc_calls_total counter\n")
	for _, path := range sortedKeys(calls) {
		fmt.Fprintf(&buf, "trpc_calls_total{path=%q} %d\n", path, calls[path])
	}

	errKeys := make([]errorKey, 0, len(errs))
	for k := range errs {
		errKeys = append(errKeys, k)
	}
	sort.Slice(errKeys, func(i, j int) bool {
		if errKeys[i].path != errKeys[j].path {
			return errKeys[i].path < errKeys[j].path
		}
		return errKeys[i].code < errKeys[j].code
	})
	fmt.Fprintf(&buf, "# HELP trpc_errors_total Total failed procedure calls\n")
	fmt.Fprintf(&buf, "# TYPE trpc_errors_total counter\n")
	for _, k := range errKeys {
		fmt.Fprintf(&buf, "trpc_errors_total{path=%q,code=%q} %d\n", k.path, k.code, errs[k])
	}

	writeHistogram(&buf, "trpc_call_duration_ms", "Procedure call duration in milliseconds", callDuration.Snapshot())
	return buf.String()
}

func sortedKeys(m map[string]uint64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts = make([]uint64, len(h.buckets))
	h.sum = 0
	h.count = 0
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
