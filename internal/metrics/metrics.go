package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/fathima-sithara/visa-service/internal/events"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	applicationsEvt *prometheus.CounterVec
}

// New registers the service collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visa_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		applicationsEvt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_application_events_total",
			Help: "Visa application lifecycle events",
		}, []string{"type"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.latency,
		m.applicationsEvt,
	)
	return m
}

// Middleware records count and latency per matched route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// InstrumentPublisher counts every event passed to next, whether or not delivery succeeds.
func (m *Metrics) InstrumentPublisher(next events.Publisher) events.Publisher {
	return &countingPublisher{next: next, counter: m.applicationsEvt}
}

type countingPublisher struct {
	next    events.Publisher
	counter *prometheus.CounterVec
}

func (p *countingPublisher) Publish(ctx context.Context, evt events.ApplicationEvent) error {
	p.counter.WithLabelValues(string(evt.Type)).Inc()
	return p.next.Publish(ctx, evt)
}

func (p *countingPublisher) Close() error { return p.next.Close() }
