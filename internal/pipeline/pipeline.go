// Package pipeline orchestrates one reconciliation run: Engine A over the
// source/disbursement pair, then the age, Roth, and IRA engines concurrently
// over the disbursement batch. Engines share no state, so the fan-out needs
// no locking beyond the result slots.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/agecode"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/common"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/config"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/correction"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/ira"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/reconcile"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/roth"
)

// Batches is the full input set for one run, produced by the external
// loading layer.
type Batches struct {
	DateFilter         *config.DateFilter
	Source             []model.SourceRecord
	Disbursements      []model.DisbursementRecord
	Demographics       []model.DemographicRecord
	RothBasis          []model.RothBasisRecord
	PlanIDs            []string
	ApplyBusinessRules bool
}

// EngineResult is one engine's classified output plus its composed
// correction and investigation rows.
type EngineResult struct {
	Candidates     []model.CorrectionCandidate
	Corrections    []correction.Row
	Investigations []correction.Row
}

// Result is the complete output of one pipeline run.
type Result struct {
	StartedAt      time.Time
	CompletedAt    time.Time
	RunID          string
	Reconciliation []model.MatchedPair
	ReconcileOut   EngineResult
	AgeCode        EngineResult
	Roth           EngineResult
	IRA            EngineResult
	Stats          Stats
}

// Stats summarizes one run across all engines.
type Stats struct {
	Duration       time.Duration
	Pairs          int
	Candidates     int
	Corrections    int
	Investigations int
}

func (r *Result) computeStats() {
	r.Stats = Stats{
		Duration: r.CompletedAt.Sub(r.StartedAt),
		Pairs:    len(r.Reconciliation),
	}
	for _, out := range []EngineResult{r.ReconcileOut, r.AgeCode, r.Roth, r.IRA} {
		r.Stats.Candidates += len(out.Candidates)
		r.Stats.Corrections += len(out.Corrections)
		r.Stats.Investigations += len(out.Investigations)
	}
}

// Runner executes the four engines with one immutable settings set.
type Runner struct {
	settings config.Settings
}

// NewRunner creates a pipeline runner.
func NewRunner(settings config.Settings) *Runner {
	return &Runner{settings: settings}
}

// Run executes one full reconciliation pass. It fails fast on structural
// errors and honors context cancellation between engine dispatch; row-level
// problems never abort the run.
func (r *Runner) Run(ctx context.Context, batches Batches) (*Result, error) {
	if err := config.Validate(r.settings.Matching, r.settings.Roth); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	common.LogInfo("pipeline run starting", common.Fields{
		"run_id":        result.RunID,
		"source":        len(batches.Source),
		"disbursements": len(batches.Disbursements),
	})

	pairs, err := reconcile.New(r.settings.Matching).Reconcile(batches.Source, batches.Disbursements, reconcile.Options{
		PlanIDs:            batches.PlanIDs,
		ApplyBusinessRules: batches.ApplyBusinessRules,
	})
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}
	result.Reconciliation = pairs
	reconCands := make([]model.CorrectionCandidate, 0, len(pairs))
	for _, pair := range pairs {
		reconCands = append(reconCands, pair.Candidate())
	}
	result.ReconcileOut = composeResult(reconCands)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Engines B, C, and D read independent slices of the disbursement data
	// and write to separate result slots; run them in parallel.
	var wg sync.WaitGroup
	errs := make([]error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		cands, err := agecode.New(r.settings.AgeCode, r.settings.Matching, r.settings.Roth).
			Analyze(batches.Disbursements, batches.Demographics, batches.DateFilter)
		if err != nil {
			errs[0] = fmt.Errorf("age-code analysis failed: %w", err)
			return
		}
		result.AgeCode = composeResult(cands)
	}()
	go func() {
		defer wg.Done()
		cands, err := roth.New(r.settings.Roth, r.settings.RothCodes, r.settings.AgeCode, r.settings.Matching).
			Analyze(batches.Disbursements, batches.Demographics, batches.RothBasis, batches.DateFilter)
		if err != nil {
			errs[1] = fmt.Errorf("roth analysis failed: %w", err)
			return
		}
		result.Roth = composeResult(cands)
	}()
	go func() {
		defer wg.Done()
		cands, err := ira.New(r.settings.IRA).Analyze(batches.Disbursements, batches.DateFilter)
		if err != nil {
			errs[2] = fmt.Errorf("ira audit failed: %w", err)
			return
		}
		result.IRA = composeResult(cands)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.CompletedAt = time.Now().UTC()
	result.computeStats()
	common.LogInfo("pipeline run complete", common.Fields{
		"run_id":         result.RunID,
		"pairs":          result.Stats.Pairs,
		"candidates":     result.Stats.Candidates,
		"corrections":    result.Stats.Corrections,
		"investigations": result.Stats.Investigations,
	})
	return result, nil
}

func composeResult(candidates []model.CorrectionCandidate) EngineResult {
	return EngineResult{
		Candidates:     candidates,
		Corrections:    correction.BuildCorrections(candidates),
		Investigations: correction.BuildInvestigations(candidates),
	}
}
