// Package engine orchestrates the age verification of a gem batch: worker
// pool, result cache, violation classification, and the sequential fallback.
package engine

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gemward/gemward/internal/exceptions"
	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/models"
	"github.com/gemward/gemward/internal/policy"
	"github.com/gemward/gemward/internal/resolver"
)

type Engine struct {
	policy     *policy.Policy
	exceptions *exceptions.Registry
	resolver   resolver.ReleaseDateResolver
	maxWorkers int

	now      func() time.Time
	dispatch dispatchFunc
}

type dispatchFunc func(ctx context.Context, st *runState, gems []models.GemRef, sourceMap map[string]string, overrideDays, workers int) error

func New(pol *policy.Policy, reg *exceptions.Registry, res resolver.ReleaseDateResolver, maxWorkers int) *Engine {
	e := &Engine{
		policy:     pol,
		exceptions: reg,
		resolver:   res,
		maxWorkers: maxWorkers,
		now:        time.Now,
	}
	e.dispatch = e.runParallel
	return e
}

// runState is the mutable state of a single run: the cache, the two violation
// collections, the examined counter, and the progress writer. Each resource
// carries its own guard so unrelated appends never serialize on one lock.
type runState struct {
	cache *resultCache

	mu         sync.Mutex
	violations []models.Violation
	excepted   []models.Violation

	checked atomic.Int64

	progressMu sync.Mutex
	out        io.Writer
}

func (st *runState) addViolation(v models.Violation) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if v.Excepted {
		st.excepted = append(st.excepted, v)
	} else {
		st.violations = append(st.violations, v)
	}
}

func (st *runState) progressDot() {
	st.progressMu.Lock()
	defer st.progressMu.Unlock()
	fmt.Fprint(st.out, ".")
}

// Run checks every gem in the batch and returns the verification report.
// requestedWorkers is clamped to [1, configured max] and never exceeds the
// batch size; a single effective worker runs sequentially in lockfile order.
func (e *Engine) Run(ctx context.Context, gems []models.GemRef, sourceMap map[string]string, overrideDays, requestedWorkers int) *models.Report {
	st := &runState{
		cache: newResultCache(),
		out:   logger.Out(),
	}

	workers := e.clampWorkers(requestedWorkers, len(gems))

	if workers > 1 {
		if err := e.dispatch(ctx, st, gems, sourceMap, overrideDays, workers); err != nil {
			logger.Warn("parallel verification failed (%v); retrying sequentially", err)
			e.runSequential(ctx, st, gems, sourceMap, overrideDays)
		}
	} else {
		e.runSequential(ctx, st, gems, sourceMap, overrideDays)
	}

	fmt.Fprintln(st.out)
	return st.report()
}

func (e *Engine) clampWorkers(requested, batchSize int) int {
	if requested <= 0 || requested > e.maxWorkers {
		requested = e.maxWorkers
	}
	if requested > batchSize {
		requested = batchSize
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

// runParallel fans the batch out over a closed pre-loaded queue. A panic in
// the orchestration itself surfaces as an error so Run can fall back to the
// sequential path; per-gem failures are isolated inside checkGem.
func (e *Engine) runParallel(ctx context.Context, st *runState, gems []models.GemRef, sourceMap map[string]string, overrideDays, workers int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker pool panicked: %v", r)
		}
	}()

	queue := make(chan models.GemRef, len(gems))
	for _, g := range gems {
		queue <- g
	}
	close(queue)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for gem := range queue {
				e.checkGem(ctx, st, gem, sourceMap, overrideDays)
			}
		}()
	}
	wg.Wait()

	return nil
}

func (e *Engine) runSequential(ctx context.Context, st *runState, gems []models.GemRef, sourceMap map[string]string, overrideDays int) {
	for _, gem := range gems {
		e.checkGem(ctx, st, gem, sourceMap, overrideDays)
	}
}

// checkGem is the per-gem check shared by both strategies, so the fallback
// cannot diverge from the primary path. Any unexpected failure caches the
// error sentinel and is treated as a skip.
func (e *Engine) checkGem(ctx context.Context, st *runState, gem models.GemRef, sourceMap map[string]string, overrideDays int) {
	key := gem.Key()
	if st.cache.Has(key) {
		return
	}
	st.checked.Add(1)

	defer func() {
		if r := recover(); r != nil {
			logger.Debug("check of %s failed: %v", key, r)
			st.cache.Put(key, cacheEntry{outcome: outcomeError})
		}
	}()
	defer st.progressDot()

	src := e.policy.Resolve(sourceMap[gem.Name])

	required := src.MinimumAgeDays
	if overrideDays > 0 {
		required = overrideDays
	}

	now := e.now()
	cutoff := now.AddDate(0, 0, -required)

	released, ok := e.resolver.ReleaseDate(ctx, gem.Name, gem.Version, src)
	if !ok {
		st.cache.Put(key, cacheEntry{outcome: outcomeUnknown})
		return
	}
	st.cache.Put(key, cacheEntry{outcome: outcomeDate, released: released})

	if !released.After(cutoff) {
		return
	}

	v := models.Violation{
		Gem:          gem.Name,
		Version:      gem.Version,
		ReleaseDate:  released,
		AgeDays:      int(now.Sub(released).Hours() / 24),
		Source:       src.Name,
		RequiredDays: required,
	}
	if entry := e.exceptions.Match(gem.Name, gem.Version); entry != nil {
		v.Excepted = true
		v.ExceptionReason = entry.Reason
	}
	st.addViolation(v)
}

func (st *runState) report() *models.Report {
	sortByAge(st.violations)
	sortByAge(st.excepted)

	return &models.Report{
		Violations: st.violations,
		Excepted:   st.excepted,
		Checked:    int(st.checked.Load()),
		Passed:     len(st.violations) == 0,
	}
}

// sortByAge orders ascending by age, ties broken by discovery order.
func sortByAge(vs []models.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].AgeDays < vs[j].AgeDays
	})
}
