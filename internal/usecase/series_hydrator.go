package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

const (
	defaultHydrationWorkers = 24
	defaultResolveTimeout   = time.Minute
)

// SeriesPatchPublisher receives every patch a hydration run emits.
type SeriesPatchPublisher interface {
	PublishSeriesPatch(ctx context.Context, patch series.Patch) error
}

type RangeHydratorConfig struct {
	Workers int
	// ResolveTimeout bounds one shared resolution of a primary stage id.
	ResolveTimeout time.Duration
	Publisher      SeriesPatchPublisher
	Logger         *logging.Logger
}

// RangeHydrator resolves the authoritative stage set and date window of series
// rows. All runs share one bounded worker pool so the number of concurrent
// resolutions stays fixed regardless of how many rows or runs are active.
type RangeHydrator struct {
	fixtures  fixture.Provider
	stages    stage.Provider
	cache     *RangeCache
	workers   *ants.Pool
	timeout   time.Duration
	publisher SeriesPatchPublisher
	logger    *logging.Logger

	flight   singleflight.Group
	mu       sync.Mutex
	inflight map[string]*sharedResolve
}

// sharedResolve is one resolution joined by every caller asking for the same
// key. It runs detached from any single caller and is cancelled once the last
// caller has gone.
type sharedResolve struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func NewRangeHydrator(
	fixtures fixture.Provider,
	stages stage.Provider,
	cache *RangeCache,
	cfg RangeHydratorConfig,
) (*RangeHydrator, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultHydrationWorkers
	}
	timeout := cfg.ResolveTimeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}

	logger := logging.OrDefault(cfg.Logger).Named("series_hydrator")
	workerPool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		logger.Error("hydration task panicked", "panic", fmt.Sprint(p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create hydration worker pool: %w", err)
	}

	return &RangeHydrator{
		fixtures:  fixtures,
		stages:    stages,
		cache:     cache,
		workers:   workerPool,
		timeout:   timeout,
		publisher: cfg.Publisher,
		logger:    logger,
		inflight:  make(map[string]*sharedResolve),
	}, nil
}

// Close releases the worker pool. Runs started afterwards emit nothing.
func (h *RangeHydrator) Close() {
	h.workers.Release()
}

// HydrationRun is one hydration pass over a set of rows. Patches arrive in
// completion order, at most one per primary stage id, and the channel is
// closed once every task has finished or been dropped.
type HydrationRun struct {
	patches chan series.Patch
	cancel  context.CancelFunc
	done    chan struct{}
}

func (r *HydrationRun) Patches() <-chan series.Patch {
	return r.patches
}

// Cancel aborts in-flight lookups and drops tasks that have not started.
func (r *HydrationRun) Cancel() {
	r.cancel()
}

// Wait blocks until the run has finished.
func (r *HydrationRun) Wait() {
	<-r.done
}

// Hydrate starts resolving every row in the background and returns at once.
// A row whose resolution fails emits no patch and keeps its provisional
// window.
func (h *RangeHydrator) Hydrate(ctx context.Context, rows []series.Row) *HydrationRun {
	keys := uniquePrimaryStageIDs(rows)
	runCtx, cancel := context.WithCancel(ctx)
	run := &HydrationRun{
		patches: make(chan series.Patch, len(keys)),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(run.done)
		defer cancel()

		var tasks sync.WaitGroup
		for _, key := range keys {
			if runCtx.Err() != nil {
				break
			}
			tasks.Add(1)
			err := h.workers.Submit(func() {
				defer tasks.Done()
				if runCtx.Err() != nil {
					return
				}
				if patch, ok := h.HydrateOne(runCtx, key); ok {
					run.patches <- patch
				}
			})
			if err != nil {
				tasks.Done()
				h.logger.WarnContext(runCtx, "hydration task rejected", "stage_id", key, "error", err)
				break
			}
		}
		tasks.Wait()
		close(run.patches)
	}()

	return run
}

// HydrateOne returns the resolved patch for primaryStageID, reading the range
// cache first. ok is false when nothing could be resolved.
func (h *RangeHydrator) HydrateOne(ctx context.Context, primaryStageID int64) (series.Patch, bool) {
	if primaryStageID <= 0 {
		return series.Patch{}, false
	}
	if patch, ok := h.cache.Get(ctx, primaryStageID); ok {
		h.publish(ctx, patch)
		return patch, true
	}

	result, ok := h.resolveShared(ctx, primaryStageID)
	if !ok || !result.ok {
		return series.Patch{}, false
	}
	h.publish(ctx, result.patch)
	return result.patch, true
}

// resolveShared joins the resolution of primaryStageID. A caller whose ctx
// ends stops waiting without affecting the other callers; the resolution is
// only cancelled when no caller is left.
func (h *RangeHydrator) resolveShared(ctx context.Context, primaryStageID int64) (resolvedPatch, bool) {
	key := strconv.FormatInt(primaryStageID, 10)
	call := h.join(ctx, key)
	defer h.leave(key, call)

	ch := h.flight.DoChan(key, func() (any, error) {
		if patch, ok := h.cache.Get(call.ctx, primaryStageID); ok {
			return resolvedPatch{patch: patch, ok: true}, nil
		}
		patch, ok := h.resolve(call.ctx, primaryStageID)
		if ok {
			if err := h.cache.Put(call.ctx, patch); err != nil {
				h.logger.WarnContext(call.ctx, "range cache write failed", "stage_id", primaryStageID, "error", err)
			}
		}
		return resolvedPatch{patch: patch, ok: ok}, nil
	})

	select {
	case res := <-ch:
		return res.Val.(resolvedPatch), true
	case <-ctx.Done():
		return resolvedPatch{}, false
	}
}

func (h *RangeHydrator) join(ctx context.Context, key string) *sharedResolve {
	h.mu.Lock()
	defer h.mu.Unlock()

	call, ok := h.inflight[key]
	if !ok {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		call = &sharedResolve{ctx: sharedCtx, cancel: cancel}
		h.inflight[key] = call
	}
	call.waiters++
	return call
}

func (h *RangeHydrator) leave(key string, call *sharedResolve) {
	h.mu.Lock()
	defer h.mu.Unlock()

	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if h.inflight[key] == call {
		delete(h.inflight, key)
	}
	// A resolution cancelled for lack of callers must not answer the next one.
	h.flight.Forget(key)
}

type resolvedPatch struct {
	patch series.Patch
	ok    bool
}

type stageFetch struct {
	stageID  int64
	fixtures []fixture.Fixture
	err      error
}

func (h *RangeHydrator) resolve(ctx context.Context, primaryStageID int64) (series.Patch, bool) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RangeHydrator.resolve")
	defer span.End()

	stageIDs := h.resolveStageIDs(ctx, primaryStageID)

	p := pool.NewWithResults[stageFetch]().WithContext(ctx)
	for _, id := range stageIDs {
		p.Go(func(ctx context.Context) (stageFetch, error) {
			items, err := h.fixtures.ListStageFixtures(ctx, id)
			return stageFetch{stageID: id, fixtures: items, err: err}, nil
		})
	}
	fetched, _ := p.Wait()

	if ctx.Err() != nil {
		return series.Patch{}, false
	}

	var (
		start, end *time.Time
		succeeded  int
	)
	for _, f := range fetched {
		if f.err != nil {
			h.logger.WarnContext(ctx, "stage fixtures fetch failed", "stage_id", f.stageID, "error", f.err)
			continue
		}
		succeeded++
		for _, item := range f.fixtures {
			if item.StartingAt.IsZero() {
				continue
			}
			if start == nil || item.StartingAt.Before(*start) {
				v := item.StartingAt
				start = &v
			}
			effectiveEnd := series.EffectiveEnd(item.StartingAt, item.Type)
			if end == nil || effectiveEnd.After(*end) {
				end = &effectiveEnd
			}
		}
	}
	if succeeded == 0 {
		return series.Patch{}, false
	}

	return series.Patch{
		PrimaryStageID: primaryStageID,
		StageIDs:       stageIDs,
		StartDate:      start,
		EndDate:        end,
	}, true
}

// resolveStageIDs pairs primaryStageID with the next stage id only when both
// stages are known, belong to the same league season and the primary is not
// a bare format label.
func (h *RangeHydrator) resolveStageIDs(ctx context.Context, primaryStageID int64) []int64 {
	var (
		primary, next           stage.Stage
		primaryFound, nextFound bool
		primaryErr, nextErr     error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		primary, primaryFound, primaryErr = h.stages.GetStage(ctx, primaryStageID)
	})
	wg.Go(func() {
		next, nextFound, nextErr = h.stages.GetStage(ctx, primaryStageID+1)
	})
	wg.Wait()

	if primaryErr != nil {
		h.logger.WarnContext(ctx, "stage lookup failed", "stage_id", primaryStageID, "error", primaryErr)
	}
	if nextErr != nil {
		h.logger.WarnContext(ctx, "stage lookup failed", "stage_id", primaryStageID+1, "error", nextErr)
	}

	paired := primaryErr == nil && nextErr == nil &&
		primaryFound && nextFound &&
		primary.SameCompetition(next) &&
		!series.IsFormatCode(primary.Code)
	if paired {
		return []int64{primaryStageID, primaryStageID + 1}
	}
	return []int64{primaryStageID}
}

func (h *RangeHydrator) publish(ctx context.Context, patch series.Patch) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishSeriesPatch(ctx, patch); err != nil {
		h.logger.WarnContext(ctx, "publish series patch failed", "stage_id", patch.PrimaryStageID, "error", err)
	}
}

func uniquePrimaryStageIDs(rows []series.Row) []int64 {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		key := row.PrimaryStageID()
		if key <= 0 {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
