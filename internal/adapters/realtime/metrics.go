package realtime

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

// Publish outcomes recorded on the notifications counter.
const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
)

// NewNotificationsCounter returns the taskhub_notifications_total counter,
// labelled by publish outcome.
func NewNotificationsCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_notifications_total",
			Help: "Notifications pushed to the real-time channel, by outcome",
		},
		[]string{"outcome"},
	)
}

type instrumentedPublisher struct {
	next    ports.RealtimePublisher
	counter *prometheus.CounterVec
}

// WithMetrics counts every publish attempt made through next.
func WithMetrics(next ports.RealtimePublisher, counter *prometheus.CounterVec) ports.RealtimePublisher {
	return &instrumentedPublisher{next: next, counter: counter}
}

func (p *instrumentedPublisher) Publish(ctx context.Context, n *entities.Notification) error {
	if err := p.next.Publish(ctx, n); err != nil {
		p.counter.WithLabelValues(OutcomeFailed).Inc()
		return err
	}
	p.counter.WithLabelValues(OutcomePublished).Inc()
	return nil
}
