// Package otel records topoindex operations as OpenTelemetry metrics.
//
// Instruments:
//
//   - topoindex.register, topoindex.remove, topoindex.link: counters with a
//     "result" attribute ("ok" or the failure kind);
//   - topoindex.lookup: counter with "kind" and "hit" attributes;
//   - topoindex.rebuild: counter, plus topoindex.rebuild.duration (ms) and
//     topoindex.rebuild.nodes histograms.
package otel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hupe1980/topoindex"
)

var _ topoindex.MetricsCollector = (*Collector)(nil)

// Collector implements topoindex.MetricsCollector on top of a metric.Meter.
type Collector struct {
	registers       metric.Int64Counter
	removes         metric.Int64Counter
	links           metric.Int64Counter
	lookups         metric.Int64Counter
	rebuilds        metric.Int64Counter
	rebuildDuration metric.Float64Histogram
	rebuildNodes    metric.Int64Histogram
}

// New creates all instruments from meter.
func New(meter metric.Meter) (*Collector, error) {
	if meter == nil {
		return nil, errors.New("otel: meter is nil")
	}

	c := &Collector{}
	var err error

	if c.registers, err = meter.Int64Counter("topoindex.register",
		metric.WithDescription("Entity registrations"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("create register counter: %w", err)
	}
	if c.removes, err = meter.Int64Counter("topoindex.remove",
		metric.WithDescription("Entity removals"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("create remove counter: %w", err)
	}
	if c.links, err = meter.Int64Counter("topoindex.link",
		metric.WithDescription("Edge insertions and removals"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("create link counter: %w", err)
	}
	if c.lookups, err = meter.Int64Counter("topoindex.lookup",
		metric.WithDescription("Identity lookups by key space"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("create lookup counter: %w", err)
	}
	if c.rebuilds, err = meter.Int64Counter("topoindex.rebuild",
		metric.WithDescription("Full closure rebuilds"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("create rebuild counter: %w", err)
	}
	if c.rebuildDuration, err = meter.Float64Histogram("topoindex.rebuild.duration",
		metric.WithDescription("Closure rebuild duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("create rebuild duration histogram: %w", err)
	}
	if c.rebuildNodes, err = meter.Int64Histogram("topoindex.rebuild.nodes",
		metric.WithDescription("Nodes covered by a closure rebuild"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("create rebuild nodes histogram: %w", err)
	}
	return c, nil
}

func result(err error) attribute.KeyValue {
	switch {
	case err == nil:
		return attribute.String("result", "ok")
	case errors.Is(err, topoindex.ErrStaleHandle):
		return attribute.String("result", "stale")
	case errors.Is(err, topoindex.ErrNotFound):
		return attribute.String("result", "not_found")
	case errors.Is(err, topoindex.ErrDuplicate):
		return attribute.String("result", "duplicate")
	case errors.Is(err, topoindex.ErrInvalidReference), errors.Is(err, topoindex.ErrInvalidType):
		return attribute.String("result", "invalid")
	default:
		return attribute.String("result", "error")
	}
}

// RecordRegister implements topoindex.MetricsCollector.
func (c *Collector) RecordRegister(_ time.Duration, err error) {
	c.registers.Add(context.Background(), 1, metric.WithAttributes(result(err)))
}

// RecordRemove implements topoindex.MetricsCollector.
func (c *Collector) RecordRemove(_ time.Duration, err error) {
	c.removes.Add(context.Background(), 1, metric.WithAttributes(result(err)))
}

// RecordLink implements topoindex.MetricsCollector.
func (c *Collector) RecordLink(op string, _ time.Duration, err error) {
	c.links.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("op", op),
		result(err),
	))
}

// RecordLookup implements topoindex.MetricsCollector.
func (c *Collector) RecordLookup(kind topoindex.LookupKind, hit bool) {
	c.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.Bool("hit", hit),
	))
}

// RecordRebuild implements topoindex.MetricsCollector.
func (c *Collector) RecordRebuild(nodes, edges int, duration time.Duration) {
	ctx := context.Background()
	c.rebuilds.Add(ctx, 1)
	c.rebuildDuration.Record(ctx, float64(duration.Microseconds())/1000,
		metric.WithAttributes(attribute.Int("edges", edges)))
	c.rebuildNodes.Record(ctx, int64(nodes))
}
