package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	mu               sync.Mutex
	directoryTotal   = map[string]uint64{}
	directoryFailed  = map[string]uint64{}
	staleFetchTotal  uint64
	directoryLatency = newHistogram([]float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// ObserveDirectoryCall records one Remote Directory call for op and how long it took.
func ObserveDirectoryCall(op string, elapsed time.Duration, err error) {
	mu.Lock()
	directoryTotal[op]++
	if err != nil {
		directoryFailed[op]++
	}
	mu.Unlock()

	ms := float64(elapsed.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	directoryLatency.Observe(ms)
}

// IncStaleFetch counts fetch results discarded because the mirror changed in flight.
func IncStaleFetch() {
	mu.Lock()
	staleFetchTotal++
	mu.Unlock()
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
	mu.Lock()
	total := copyCounts(directoryTotal)
	failed := copyCounts(directoryFailed)
	stale := staleFetchTotal
	mu.Unlock()

	var buf bytes.Buffer
	writeLabeledCounter(&buf, "directory_requests_total", "Remote Directory requests by operation", total)
	writeLabeledCounter(&buf, "directory_failures_total", "Failed Remote Directory requests by operation", failed)
	writeCounter(&buf, "mirror_stale_fetch_total", "Fetch results discarded because the mirror changed", stale)
	writeHistogram(&buf, "directory_request_duration_ms", "Remote Directory request duration in milliseconds", directoryLatency.Snapshot())
	return buf.String()
}

// Reset zeroes every metric. Tests only.
func Reset() {
	mu.Lock()
	directoryTotal = map[string]uint64{}
	directoryFailed = map[string]uint64{}
	staleFetchTotal = 0
	mu.Unlock()
	directoryLatency.reset()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
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

// Observe adds value to the first bucket whose bound covers it; Render accumulates.
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

func (h *histogram) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts = make([]uint64, len(h.buckets))
	h.sum = 0
	h.count = 0
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	ops := make([]string, 0, len(values))
	for op := range values {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(buf, "%s{op=%q} %d\n", name, op, values[op])
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
