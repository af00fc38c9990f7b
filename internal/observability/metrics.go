package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the bot.
type Metrics struct {
	Turns              *prometheus.CounterVec
	Retrievals         *prometheus.CounterVec
	RetrievalBestScore prometheus.Histogram
	GroundingLines     *prometheus.CounterVec
	CollaboratorErrors *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns by route.",
		}, []string{"route"}),
		Retrievals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_total",
			Help:      "Knowledge retrievals by decision.",
		}, []string{"decision"}),
		RetrievalBestScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_best_score",
			Help:      "Best similarity score per retrieval.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
		}),
		GroundingLines: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grounding_lines_total",
			Help:      "Candidate reply lines kept or dropped by grounding.",
		}, []string{"result"}),
		CollaboratorErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_errors_total",
			Help:      "Failures of state, retrieval, generation and side channels.",
		}, []string{"collaborator"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound messages by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveTurn(route string) {
	m.Turns.WithLabelValues(route).Inc()
}

func (m *Metrics) ObserveRetrieval(bestScore float64, pass bool) {
	decision := "fail"
	if pass {
		decision = "pass"
	}
	m.Retrievals.WithLabelValues(decision).Inc()
	m.RetrievalBestScore.Observe(bestScore)
}

func (m *Metrics) ObserveGrounding(kept, dropped int) {
	m.GroundingLines.WithLabelValues("kept").Add(float64(kept))
	m.GroundingLines.WithLabelValues("dropped").Add(float64(dropped))
}

func (m *Metrics) ObserveCollaboratorError(collaborator string) {
	m.CollaboratorErrors.WithLabelValues(collaborator).Inc()
}

func (m *Metrics) ObserveRequest(outcome string) {
	m.HTTPRequests.WithLabelValues(outcome).Inc()
}

func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
