package dialog

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTopK      = 3
	DefaultMinScore  = 0.22
	DefaultMaxChunks = 2
)

type RetrievalConfig struct {
	TopK      int
	MinScore  float64
	MaxChunks int
}

type Option func(*service)

func WithClassifier(c Classifier) Option {
	return func(s *service) {
		if c != nil {
			s.classifier = c
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

func WithTranscript(t Transcript) Option {
	return func(s *service) { s.transcript = t }
}

func WithMetrics(m Metrics) Option {
	return func(s *service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.log = l.Named("svc")
		}
	}
}

// WithRetrieval — нулевые поля остаются по умолчанию.
func WithRetrieval(cfg RetrievalConfig) Option {
	return func(s *service) {
		if cfg.TopK > 0 {
			s.retrieval.TopK = cfg.TopK
		}
		if cfg.MinScore > 0 {
			s.retrieval.MinScore = cfg.MinScore
		}
		if cfg.MaxChunks > 0 {
			s.retrieval.MaxChunks = cfg.MaxChunks
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}
