package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/arcana-network/frostsigner/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var registry = prometheus.NewRegistry()
var dkgCalls = newDKGCounter(registry)
var signingCalls = newSigningCounter(registry)

func IncrementDKGRound(round string, err error) {
	dkgCalls.rounds.WithLabelValues(round, outcome(err)).Inc()
}

func AddKeysGenerated(n int) {
	dkgCalls.keys.Add(float64(n))
}

func AddNoncesGenerated(n int) {
	signingCalls.nonces.Add(float64(n))
}

func IncrementSignatureShares(role string, err error) {
	signingCalls.shares.WithLabelValues(role, outcome(err)).Inc()
}

func IncrementAggregation(err error) {
	signingCalls.aggregation.WithLabelValues(outcome(err)).Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// TelemetryService serves /metrics on its own port.
type TelemetryService struct {
	mu      sync.Mutex
	port    string
	server  *http.Server
	running bool
}

func New(port string) *TelemetryService {
	return &TelemetryService{port: port}
}

func (*TelemetryService) ID() string {
	return common.TELEMETRY_SERVICE_NAME
}

func (t *TelemetryService) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	t.mu.Lock()
	t.server = &http.Server{Addr: fmt.Sprintf(":%s", t.port), Handler: mux}
	t.running = true
	server := t.server
	t.mu.Unlock()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("telemetry server stopped")
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		return err
	}
	return nil
}

func (t *TelemetryService) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.server == nil {
		return nil
	}
	return t.server.Shutdown(context.Background())
}

func (t *TelemetryService) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *TelemetryService) Call(method string, args ...interface{}) (interface{}, error) {
	return nil, fmt.Errorf("telemetry service method %v not found", method)
}
