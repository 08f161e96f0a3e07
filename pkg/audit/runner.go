package audit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/iamaudit/internal/models"
	"golang.org/x/sync/errgroup"
)

// CheckResult is the outcome of one check. A failed check has Err set and
// contributes no findings.
type CheckResult struct {
	Check    Check
	Findings int
	Err      error
	Duration time.Duration
}

// Failed reports whether the check was aborted by an API error
func (r CheckResult) Failed() bool { return r.Err != nil }

// Runner runs all checks and assembles the snapshot
type Runner struct {
	checker   *Checker
	accountID string
	now       func() time.Time
}

// NewRunner creates a new Runner. accountID may be empty.
func NewRunner(checker *Checker, accountID string) *Runner {
	return &Runner{
		checker:   checker,
		accountID: accountID,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for the snapshot timestamp
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run executes the checks concurrently and waits for all of them before
// building the snapshot. Check failures yield empty results and never fail
// the run. Results are returned in Checks order. Callers must check ctx.Err()
// afterwards, a cancelled run produces an incomplete snapshot.
func (r *Runner) Run(ctx context.Context) (models.FindingsSnapshot, []CheckResult) {
	generatedAt := r.now()
	checker := r.checker.forRun()

	var (
		mfa     []models.MFAAbsence
		stale   []models.StaleKey
		unused  []models.UnusedKey
		results = make([]CheckResult, len(Checks))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mfa, results[0] = contain(gctx, CheckMFA, checker.UsersWithoutMFA)
		return nil
	})
	g.Go(func() error {
		stale, results[1] = contain(gctx, CheckKeyAge, checker.StaleKeys)
		return nil
	})
	g.Go(func() error {
		unused, results[2] = contain(gctx, CheckKeyUsage, checker.UnusedKeys)
		return nil
	})
	_ = g.Wait() // checks never return errors to the group

	return Aggregate(generatedAt, r.accountID, mfa, stale, unused), results
}

// contain runs a single check and substitutes an empty result on failure.
// Logging is at debug level since the checks run under the spinner; callers
// report failures once it has stopped.
func contain[T any](ctx context.Context, check Check, fn func(context.Context) ([]T, error)) ([]T, CheckResult) {
	logger := zerolog.Ctx(ctx).With().Str("check", string(check)).Logger()
	start := time.Now()

	findings, err := fn(ctx)
	result := CheckResult{Check: check, Duration: time.Since(start)}
	if err != nil {
		result.Err = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Debug().Err(err).Msg("check interrupted")
		} else {
			logger.Debug().Err(err).Msg("check failed, continuing without its findings")
		}
		return []T{}, result
	}

	result.Findings = len(findings)
	logger.Debug().Int("findings", len(findings)).Dur("duration", result.Duration).Msg("check complete")
	return findings, result
}
