package pass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/observability"
	"github.com/Jeepster74/MPone/internal/ratelimit"
	"github.com/Jeepster74/MPone/internal/store"
)

// ErrQuotaExceeded is returned by an enricher when its provider has
// refused further requests for the day. The runner flushes what it has and
// stops; the next run resumes from the unfilled cells.
var ErrQuotaExceeded = errors.New("provider quota exceeded")

// ColumnEnricher fills a fixed set of store columns, one record at a time.
type ColumnEnricher interface {
	// Name identifies the pass in logs, metrics, and ownership errors.
	Name() string
	// Columns lists the store columns this pass owns.
	Columns() []store.Column
	// Pending returns the indices of records still needing enrichment.
	Pending(records []domain.VenueRecord) []int
	// Enrich fills the pass's columns on one record.
	Enrich(ctx context.Context, r *domain.VenueRecord) error
}

// FailureMarker lets an enricher record a permanent failure on a record so
// the cell is not retried on the next run. Enrichers without it leave the
// cell absent and eligible for retry.
type FailureMarker interface {
	MarkFailed(r *domain.VenueRecord)
}

// Flusher lets an enricher persist side artifacts (the catchment shapes
// file) when a run ends for any reason.
type Flusher interface {
	Flush() error
}

// Stats summarizes one runner invocation.
type Stats struct {
	Pass        string
	Pending     int
	Enriched    int
	Failed      int
	Checkpoints int
}

// Runner executes column enrichers against the store with provider pacing
// and periodic merge saves, so an interrupted pass loses at most one
// checkpoint of work.
type Runner struct {
	storePath       string
	limiter         ratelimit.Limiter
	clock           clockwork.Clock
	checkpointEvery int
	batchSize       int
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewRunner creates a Runner over the store at storePath. batchSize caps
// how many pending rows one invocation touches; zero means no cap.
func NewRunner(storePath string, limiter ratelimit.Limiter, clock clockwork.Clock, checkpointEvery, batchSize int, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		storePath:       storePath,
		limiter:         limiter,
		clock:           clock,
		checkpointEvery: checkpointEvery,
		batchSize:       batchSize,
		logger:          logger,
		metrics:         metrics,
	}
}

// Run executes one enricher over every pending record. Cancellation and
// quota exhaustion flush completed work before returning; quota exhaustion
// surfaces as ErrQuotaExceeded so callers can tell it apart from failure.
func (ru *Runner) Run(ctx context.Context, e ColumnEnricher) (Stats, error) {
	name := e.Name()
	log := ru.logger.With("pass", name)
	started := ru.clock.Now()

	ru.metrics.PassRunning.WithLabelValues(name).Set(1)
	defer ru.metrics.PassRunning.WithLabelValues(name).Set(0)
	defer func() {
		ru.metrics.PassDuration.WithLabelValues(name).Observe(ru.clock.Since(started).Seconds())
	}()

	records, err := store.ReadRecords(ru.storePath)
	if err != nil {
		return Stats{Pass: name}, fmt.Errorf("pass %s: %w", name, err)
	}
	ru.metrics.StoreRows.Set(float64(len(records)))

	persister := store.NewPersister(ru.storePath, name, e.Columns(), ru.logger)
	pending := e.Pending(records)
	if ru.batchSize > 0 && len(pending) > ru.batchSize {
		pending = pending[:ru.batchSize]
	}
	stats := Stats{Pass: name, Pending: len(pending)}
	log.Info("pass started", "rows", len(records), "pending", len(pending))

	var dirty []domain.VenueRecord
	flush := func() error {
		if len(dirty) > 0 {
			if err := persister.MergeSave(dirty, e.Columns()); err != nil {
				return err
			}
			stats.Checkpoints++
			ru.metrics.PassCheckpoints.WithLabelValues(name).Inc()
			dirty = dirty[:0]
		}
		if f, ok := e.(Flusher); ok {
			return f.Flush()
		}
		return nil
	}

	for _, idx := range pending {
		if err := ru.limiter.Wait(ctx); err != nil {
			log.Info("pass interrupted", "reason", err, "enriched", stats.Enriched)
			if ferr := flush(); ferr != nil {
				return stats, ferr
			}
			return stats, nil
		}

		r := &records[idx]
		err := e.Enrich(ctx, r)
		switch {
		case errors.Is(err, ErrQuotaExceeded):
			ru.metrics.ProviderRequests.WithLabelValues(name, "quota").Inc()
			log.Warn("provider quota exhausted, stopping", "enriched", stats.Enriched)
			if ferr := flush(); ferr != nil {
				return stats, ferr
			}
			return stats, ErrQuotaExceeded
		case err != nil:
			stats.Failed++
			ru.metrics.ProviderRequests.WithLabelValues(name, "error").Inc()
			ru.metrics.PassRows.WithLabelValues(name, "failed").Inc()
			log.Warn("enrich failed", "track_id", r.TrackID, "error", err)
			if m, ok := e.(FailureMarker); ok {
				m.MarkFailed(r)
				dirty = append(dirty, *r)
			}
		default:
			stats.Enriched++
			ru.metrics.ProviderRequests.WithLabelValues(name, "success").Inc()
			ru.metrics.PassRows.WithLabelValues(name, "enriched").Inc()
			dirty = append(dirty, *r)
		}

		if len(dirty) >= ru.checkpointEvery {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}
	log.Info("pass finished",
		"enriched", stats.Enriched, "failed", stats.Failed, "checkpoints", stats.Checkpoints)
	return stats, nil
}
