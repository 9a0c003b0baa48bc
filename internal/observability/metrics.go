package observability

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// Metrics is the service's Prometheus-text metric set. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	keysEncoded   *CounterVec
	keyLookups    *CounterVec
	keyCollisions *Counter
	storeErrors   *CounterVec

	composeLatency  *HistogramVec
	malformedLayers *CounterVec
	catalogParts    *GaugeVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("avatar_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"avatar_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		),
		apiInflight: NewGauge("avatar_api_inflight_requests", "In-flight API requests."),

		keysEncoded:   NewCounterVec("avatar_keys_encoded_total", "Selections encoded into keys by codec.", []string{"codec"}),
		keyLookups:    NewCounterVec("avatar_key_lookups_total", "Key decodes by result.", []string{"result"}),
		keyCollisions: NewCounter("avatar_key_collisions_total", "Encodes that overwrote a different selection stored under the same key."),
		storeErrors:   NewCounterVec("avatar_key_store_errors_total", "Key store failures by operation.", []string{"op"}),

		composeLatency: NewHistogramVec(
			"avatar_compose_duration_seconds",
			"Composite rendering latency in seconds by status.",
			[]string{"status"},
			[]float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		),
		malformedLayers: NewCounterVec("avatar_malformed_layers_total", "Layers skipped because the part had no inner group.", []string{"category"}),
		catalogParts:    NewGaugeVec("avatar_catalog_parts", "Parts loaded per category.", []string{"category"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.keysEncoded,
		m.keyLookups,
		m.keyCollisions,
		m.storeErrors,
		m.composeLatency,
		m.malformedLayers,
		m.catalogParts,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	method = strings.ToUpper(method)
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncKeyEncoded(codec string) {
	if m == nil {
		return
	}
	m.keysEncoded.Inc(codec)
}

// IncKeyLookup records a decode outcome: "hit", "miss" or "error".
func (m *Metrics) IncKeyLookup(result string) {
	if m == nil {
		return
	}
	m.keyLookups.Inc(result)
}

func (m *Metrics) IncKeyCollision() {
	if m == nil {
		return
	}
	m.keyCollisions.Inc()
}

func (m *Metrics) KeyCollisions() float64 {
	if m == nil {
		return 0
	}
	return m.keyCollisions.Value()
}

func (m *Metrics) IncStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.Inc(op)
}

func (m *Metrics) ObserveCompose(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.composeLatency.Observe(dur.Seconds(), status)
}

func (m *Metrics) IncMalformedLayer(category string) {
	if m == nil {
		return
	}
	m.malformedLayers.Inc(category)
}

func (m *Metrics) SetCatalogParts(category string, n int) {
	if m == nil {
		return
	}
	m.catalogParts.Set(float64(n), category)
}
