package topoindex

import (
	"sync/atomic"
	"time"
)

// LookupKind names the key space a lookup went through.
type LookupKind string

const (
	LookupByID      LookupKind = "id"
	LookupByRef     LookupKind = "ref"
	LookupByShape   LookupKind = "shape"
	LookupByHandle  LookupKind = "handle"
	LookupByRelated LookupKind = "related"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/otel package provides an OpenTelemetry implementation.
type MetricsCollector interface {
	// RecordRegister is called after each Register.
	RecordRegister(duration time.Duration, err error)

	// RecordRemove is called after each Remove.
	RecordRemove(duration time.Duration, err error)

	// RecordLink is called after each Link or Unlink. op is "link" or "unlink".
	RecordLink(op string, duration time.Duration, err error)

	// RecordLookup is called after each facade lookup.
	RecordLookup(kind LookupKind, hit bool)

	// RecordRebuild is called after each full closure rebuild.
	RecordRebuild(nodes, edges int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRegister(time.Duration, error)     {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error)       {}
func (NoopMetricsCollector) RecordLink(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordLookup(LookupKind, bool)           {}
func (NoopMetricsCollector) RecordRebuild(int, int, time.Duration)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RegisterCount     atomic.Int64
	RegisterErrors    atomic.Int64
	RemoveCount       atomic.Int64
	RemoveErrors      atomic.Int64
	LinkCount         atomic.Int64
	LinkErrors        atomic.Int64
	UnlinkCount       atomic.Int64
	UnlinkErrors      atomic.Int64
	LookupHits        atomic.Int64
	LookupMisses      atomic.Int64
	RebuildCount      atomic.Int64
	RebuildTotalNanos atomic.Int64
}

// RecordRegister implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegister(_ time.Duration, err error) {
	b.RegisterCount.Add(1)
	if err != nil {
		b.RegisterErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(_ time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordLink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLink(op string, _ time.Duration, err error) {
	if op == "unlink" {
		b.UnlinkCount.Add(1)
		if err != nil {
			b.UnlinkErrors.Add(1)
		}
		return
	}
	b.LinkCount.Add(1)
	if err != nil {
		b.LinkErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(_ LookupKind, hit bool) {
	if hit {
		b.LookupHits.Add(1)
	} else {
		b.LookupMisses.Add(1)
	}
}

// RecordRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRebuild(_, _ int, duration time.Duration) {
	b.RebuildCount.Add(1)
	b.RebuildTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		RegisterCount:  b.RegisterCount.Load(),
		RegisterErrors: b.RegisterErrors.Load(),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		LinkCount:      b.LinkCount.Load(),
		LinkErrors:     b.LinkErrors.Load(),
		UnlinkCount:    b.UnlinkCount.Load(),
		UnlinkErrors:   b.UnlinkErrors.Load(),
		LookupHits:     b.LookupHits.Load(),
		LookupMisses:   b.LookupMisses.Load(),
		RebuildCount:   b.RebuildCount.Load(),
	}
	if s.RebuildCount > 0 {
		s.RebuildAvgNanos = b.RebuildTotalNanos.Load() / s.RebuildCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RegisterCount   int64
	RegisterErrors  int64
	RemoveCount     int64
	RemoveErrors    int64
	LinkCount       int64
	LinkErrors      int64
	UnlinkCount     int64
	UnlinkErrors    int64
	LookupHits      int64
	LookupMisses    int64
	RebuildCount    int64
	RebuildAvgNanos int64
}
