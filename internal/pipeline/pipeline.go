// Package pipeline turns raw study records into geocoded, classified rows.
//
// Stages run in a fixed order: segment eligibility criteria, classify the
// first inclusion sentence, aggregate study details, assemble one row per
// (study, facility) pair, then plan and resolve geocoding queries through a
// run-scoped cache.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/model"
	"github.com/sells-group/trialmap/pkg/geocode"
)

// Pipeline wires the processing stages together. The geocode client is
// optional; without one the rows come out unresolved.
type Pipeline struct {
	rules   *Rules
	opts    DetailOptions
	geocode *geocode.CachedClient
}

// New creates a pipeline. A nil rules falls back to the defaults.
func New(rules *Rules, opts DetailOptions, gc *geocode.CachedClient) *Pipeline {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Pipeline{rules: rules, opts: opts, geocode: gc}
}

// Run processes studies end to end and returns the rows plus a summary of
// every stage's counts.
func (p *Pipeline) Run(ctx context.Context, studies []model.StudyRecord) ([]model.AssembledRow, RunSummary) {
	summary := RunSummary{
		RunID:          uuid.NewString(),
		Keyword:        p.rules.Keyword,
		StartedAt:      time.Now(),
		StudiesFetched: len(studies),
	}

	log := zap.L().With(zap.String("run_id", summary.RunID))
	log.Info("pipeline: starting run",
		zap.Int("studies", len(studies)),
		zap.String("keyword", p.rules.Keyword),
	)

	summary.Assembly = AssembleRows(studies, p.opts, p.rules)

	if p.geocode != nil {
		summary.Geocode = GeocodeRows(ctx, summary.Assembly.Rows, p.geocode, p.rules)
		summary.CacheCalls, summary.CacheHits, summary.CacheMisses = p.geocode.Stats()
	}

	summary.Duration = time.Since(summary.StartedAt)
	log.Info("pipeline: run complete",
		zap.Int("rows", len(summary.Assembly.Rows)),
		zap.Int("resolved", summary.Geocode.Resolved),
		zap.Duration("duration", summary.Duration),
	)

	return summary.Assembly.Rows, summary
}
