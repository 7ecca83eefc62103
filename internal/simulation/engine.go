package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/radonsim/internal/building"
	"github.com/nvandessel/radonsim/internal/campaign"
	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/metrics"
	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/stats"
)

var (
	// ErrInsufficientData is returned when the building holds no more than one
	// campaign length of hourly values.
	ErrInsufficientData = errors.New("insufficient data for simulation")

	// ErrInsufficientRooms is returned when the building has no patterns to
	// sample from. It is the pattern package's sentinel.
	ErrInsufficientRooms = pattern.ErrInsufficientRooms
)

// Options configures a single run.
type Options struct {
	Name string
	// Max > 0 selects random sampling of Max campaigns; 0 selects the
	// exhaustive sweep.
	Max int
	// Seed drives random sampling. 0 uses a fixed default seed.
	Seed int64
	// Workers fans the run out across goroutines. Values below 1 mean 1.
	Workers       int
	KeepCampaigns bool
	// Levels restricts sampling to some diversity levels. Empty means all.
	Levels   []pattern.Level
	Observer Observer
}

// Mode returns the sampling mode the options select.
func (o Options) Mode() Mode {
	if o.Max > 0 {
		return ModeRandom
	}
	return ModeExhaustive
}

// Engine runs simulations. The zero value is not usable; use NewEngine.
type Engine struct {
	logger           *slog.Logger
	metrics          *metrics.Metrics
	now              func() time.Time
	progressInterval int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records run metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the clock used for Simulation.Date and durations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithProgressInterval sets how many campaigns a worker evaluates between
// progress events and cancellation checks.
func WithProgressInterval(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.progressInterval = n
		}
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:           slog.New(slog.DiscardHandler),
		now:              time.Now,
		progressInterval: constants.ProgressInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run simulates campaigns over b. The building's variations are snapshotted
// at the start of the run; a concurrent rebuild does not affect it.
func (e *Engine) Run(ctx context.Context, b *building.Building, opts Options) (*Simulation, error) {
	mode := opts.Mode()
	started := e.now()

	sim, err := e.run(ctx, b, opts, mode, started)
	if err != nil {
		e.metrics.RunFailed(failureReason(err))
		return nil, err
	}
	e.metrics.ObserveRun(string(mode), sim.Count, sim.Elapsed)
	return sim, nil
}

func (e *Engine) run(ctx context.Context, b *building.Building, opts Options, mode Mode, started time.Time) (*Simulation, error) {
	if opts.Max < 0 {
		return nil, fmt.Errorf("max campaigns must not be negative: %d", opts.Max)
	}

	valueCount := b.ValueCount()
	if valueCount-constants.CampaignHours < 1 {
		return nil, fmt.Errorf("%w: building %q has %d hourly values, need more than %d",
			ErrInsufficientData, b.Name(), valueCount, constants.CampaignHours)
	}

	all, epoch := b.Snapshot()
	variations := all.Select(opts.Levels...)
	for _, l := range pattern.Levels {
		e.metrics.SetPatterns(l.String(), len(all.Get(l)))
	}
	if variations.Empty() {
		if err := b.GenerationErr(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: no patterns at the selected levels of building %q",
			ErrInsufficientRooms, b.Name())
	}

	starts := valueCount - constants.CampaignHours + 1
	patterns := variations.Len()
	total := opts.Max
	if mode == ModeExhaustive {
		total = patterns * starts
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	sim := &Simulation{
		ID:       uuid.NewString(),
		Name:     opts.Name,
		Date:     started,
		Building: b.Name(),
		Epoch:    epoch,
		Mode:     mode,
		Seed:     opts.Seed,
		Workers:  workers,
		Patterns: patterns,
	}

	observer := opts.Observer
	if observer == nil {
		observer = ObserverFunc(func(Event) {})
	}
	event := func(kind EventKind, done int, err error) Event {
		return Event{
			Kind:     kind,
			RunID:    sim.ID,
			Building: sim.Building,
			Mode:     mode,
			Done:     done,
			Total:    total,
			Elapsed:  e.now().Sub(started),
			Err:      err,
		}
	}

	e.logger.Debug("simulation run",
		"building", sim.Building, "mode", mode, "patterns", patterns,
		"starts", starts, "total", total, "workers", workers, "seed", opts.Seed)
	observer.Observe(event(EventStarted, 0, nil))

	var (
		progressMu sync.Mutex
		done       int
	)
	progress := func(n int) {
		progressMu.Lock()
		defer progressMu.Unlock()
		done += n
		observer.Observe(event(EventProgress, done, nil))
	}

	job := jobFunc(starts)
	shards := make([]*shard, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := w*total/workers, (w+1)*total/workers
		s := newShard(hi-lo, opts.KeepCampaigns)
		shards[w] = s
		g.Go(func() error {
			var next func(i int) (int, int)
			if mode == ModeRandom {
				rng := shardRNG(opts.Seed, w)
				next = func(int) (int, int) {
					return rng.Intn(patterns), rng.Intn(starts)
				}
			} else {
				next = job
			}
			return s.run(gctx, lo, hi, variations, next, e.progressInterval, progress)
		})
	}
	if err := g.Wait(); err != nil {
		observer.Observe(event(EventFinished, done, err))
		return nil, err
	}
	// errgroup cancels gctx only on worker error; a caller cancellation
	// racing the last checkpoint still aborts the run.
	if err := ctx.Err(); err != nil {
		observer.Observe(event(EventFinished, done, err))
		return nil, err
	}

	if opts.KeepCampaigns {
		sim.Campaigns = make([]*campaign.Campaign, 0, total)
	}
	for _, s := range shards {
		sim.Campaigns = append(sim.Campaigns, s.campaigns...)
		s.campaigns = nil
		sim.Count += s.count
	}
	sim.Distributions = mergeShards(shards, total)
	sim.Elapsed = e.now().Sub(started)

	observer.Observe(event(EventFinished, sim.Count, nil))
	return sim, nil
}

// jobFunc maps an exhaustive job index to (pattern index, start): pattern
// order first, then increasing start.
func jobFunc(starts int) func(i int) (int, int) {
	return func(i int) (int, int) {
		return i / starts, i % starts
	}
}

// shard is one worker's private slice of a run.
type shard struct {
	acc       [campaign.NumKinds]*stats.Descriptive
	campaigns []*campaign.Campaign
	keep      bool
	count     int
}

func newShard(capacity int, keep bool) *shard {
	s := &shard{keep: keep}
	for k := range s.acc {
		s.acc[k] = stats.NewDescriptive(capacity)
	}
	if keep {
		s.campaigns = make([]*campaign.Campaign, 0, capacity)
	}
	return s
}

// mergeShards folds the shard accumulators in shard order, one kind at a
// time. A shard's buffer for a kind is released as soon as it is merged, so
// at most one extra kind's worth of values is live. A single shard's
// accumulators are adopted as they are.
func mergeShards(shards []*shard, total int) [campaign.NumKinds]*stats.Descriptive {
	var out [campaign.NumKinds]*stats.Descriptive
	for k := range out {
		if len(shards) == 1 {
			out[k] = shards[0].acc[k]
			shards[0].acc[k] = nil
			continue
		}
		out[k] = stats.NewDescriptive(total)
		for _, s := range shards {
			out[k].Merge(s.acc[k])
			s.acc[k] = nil
		}
	}
	return out
}

func (s *shard) run(ctx context.Context, lo, hi int, v pattern.Variations, next func(int) (int, int), interval int, progress func(int)) error {
	sinceReport := 0
	for i := lo; i < hi; i++ {
		if sinceReport == interval {
			if err := ctx.Err(); err != nil {
				return err
			}
			progress(sinceReport)
			sinceReport = 0
		}

		pi, start := next(i)
		p, _ := v.At(pi)
		c, err := campaign.New(start, p)
		if err != nil {
			return fmt.Errorf("campaign %d (pattern %d, start %d): %w", i, pi, start, err)
		}
		scalars := c.Scalars()
		for k, x := range scalars {
			s.acc[k].Add(x)
		}
		if s.keep {
			s.campaigns = append(s.campaigns, c)
		}
		s.count++
		sinceReport++
	}
	if sinceReport > 0 {
		progress(sinceReport)
	}
	return ctx.Err()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrInsufficientRooms):
		return "insufficient_rooms"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
