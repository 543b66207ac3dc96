package images

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amaumene/showtrack/internal/services/images"

// DefaultTimeout bounds a single provider lookup
const DefaultTimeout = 5 * time.Second

// Provider is one tier of the poster lookup chain. An empty string with a
// nil error means the provider had nothing for this title.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, title string) (string, error)
}

// Resolver walks its providers in order and falls back to Placeholder
type Resolver struct {
	providers   []Provider
	timeout     time.Duration
	logger      *logrus.Logger
	resolutions *prometheus.CounterVec
	tracer      trace.Tracer
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout sets the per-provider lookup timeout
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithMetrics counts each resolution under the label of the tier that won
func WithMetrics(resolutions *prometheus.CounterVec) Option {
	return func(r *Resolver) {
		r.resolutions = resolutions
	}
}

// NewResolver creates a resolver trying providers in the given order
func NewResolver(providers []Provider, logger *logrus.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		providers: providers,
		timeout:   DefaultTimeout,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a poster reference for title. It never fails: every
// provider error or empty result moves on to the next tier, and the
// placeholder is returned when all tiers are exhausted. Lookups are detached
// from ctx cancellation so a client going away does not abort them.
func (r *Resolver) Resolve(ctx context.Context, title string) string {
	ctx = context.WithoutCancel(ctx)
	title = strings.TrimSpace(title)

	for _, provider := range r.providers {
		link, err := r.lookup(ctx, provider, title)
		fields := logrus.Fields{
			"provider": provider.Name(),
			"title":    title,
		}
		if err != nil {
			r.logger.WithFields(fields).WithError(err).Info("Image lookup failed, trying next provider")
			continue
		}
		if link == "" {
			r.logger.WithFields(fields).Debug("Image lookup returned no results")
			continue
		}

		r.logger.WithFields(fields).Debug("Image resolved")
		r.count(provider.Name())
		return link
	}

	r.logger.WithField("title", title).Info("No provider produced an image, using placeholder")
	r.count("placeholder")
	return Placeholder
}

// lookup runs one provider under its own timeout and span. A panicking
// provider is treated as a failed tier.
func (r *Resolver) lookup(ctx context.Context, provider Provider, title string) (link string, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "images.lookup", trace.WithAttributes(
		attribute.String("image.provider", provider.Name()),
		attribute.String("image.title", title),
	))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			link, err = "", fmt.Errorf("provider %s panicked: %v", provider.Name(), rec)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return provider.Lookup(ctx, title)
}

func (r *Resolver) count(tier string) {
	if r.resolutions != nil {
		r.resolutions.WithLabelValues(tier).Inc()
	}
}
