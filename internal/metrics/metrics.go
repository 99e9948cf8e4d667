package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketLens/internal/logger"
)

// Metrics holds the Prometheus collectors of the analysis jobs.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal   *prometheus.CounterVec // labels: kind, status
	AnalysisDur     *prometheus.HistogramVec
	LastRSI         *prometheus.GaugeVec // labels: symbol
	SignalsTotal    *prometheus.CounterVec
	PortfolioSharpe prometheus.Gauge
	NotifyFailures  prometheus.Counter
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_analyses_total",
			Help: "Analysis runs by kind and outcome",
		}, []string{"kind", "status"}),
		AnalysisDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_analysis_duration_seconds",
			Help:    "Analysis run latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		LastRSI: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketlens_rsi",
			Help: "Latest RSI per symbol",
		}, []string{"symbol"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_signals_total",
			Help: "Non-neutral indicator signals by type",
		}, []string{"type"}),
		PortfolioSharpe: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketlens_portfolio_sharpe",
			Help: "Sharpe ratio of the configured portfolio",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketlens_notify_failures_total",
			Help: "Reports that could not be delivered",
		}),
	}
	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDur,
		m.LastRSI,
		m.SignalsTotal,
		m.PortfolioSharpe,
		m.NotifyFailures,
	)
	return m
}

// Observe records the outcome and duration of one run.
func (m *Metrics) Observe(kind string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.AnalysesTotal.WithLabelValues(kind, status).Inc()
	m.AnalysisDur.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server exposes /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info(ctx, "metrics server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "metrics server stopped", err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
