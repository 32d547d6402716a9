package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/model"
)

type classLister interface {
	List(ctx context.Context) ([]model.SchoolClass, error)
}

type formLoader interface {
	Load(ctx context.Context, schemaID int) (*model.SchemaWithForm, error)
}

// PrewarmWorker keeps the compiled forms of every class's active marksheet
// schema in Redis, so opening an entry screen never waits on a compile.
type PrewarmWorker struct {
	classes  classLister
	forms    formLoader
	interval time.Duration
	log      zerolog.Logger
}

// NewPrewarmWorker creates a new PrewarmWorker that reloads every interval.
func NewPrewarmWorker(classes classLister, forms formLoader, interval time.Duration, log zerolog.Logger) *PrewarmWorker {
	return &PrewarmWorker{
		classes:  classes,
		forms:    forms,
		interval: interval,
		log:      log.With().Str("component", "prewarm_worker").Logger(),
	}
}

// Start warms once, then again on every tick until ctx is done. Call in a
// goroutine.
func (w *PrewarmWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Prewarm(ctx); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Prewarm failed")
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Prewarm loads the active schema of every class and returns how many
// forms were warmed. A schema that fails to load is logged and skipped.
func (w *PrewarmWorker) Prewarm(ctx context.Context) (int, error) {
	classes, err := w.classes.List(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[int]struct{}, len(classes))
	warmed := 0
	for _, c := range classes {
		if c.ActiveMarksheetSchemaID == nil {
			continue
		}
		id := *c.ActiveMarksheetSchemaID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if _, err := w.forms.Load(ctx, id); err != nil {
			if ctx.Err() != nil {
				return warmed, ctx.Err()
			}
			w.log.Warn().Err(err).Int("schema_id", id).Int("class_id", c.ID).Msg("Skipping schema")
			continue
		}
		warmed++
	}

	w.log.Debug().Int("count", warmed).Msg("Forms prewarmed")
	return warmed, nil
}
