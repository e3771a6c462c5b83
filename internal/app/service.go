// Package service wires the rating engine, the chemistry ledger and the
// worker pool into the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kickrate/internal/adapters/mq/queue"
	"github.com/okian/kickrate/internal/adapters/mq/worker"
	"github.com/okian/kickrate/internal/domain/chemistry"
	"github.com/okian/kickrate/internal/domain/dedupe"
	"github.com/okian/kickrate/internal/domain/model"
	"github.com/okian/kickrate/internal/domain/rating"
	"github.com/okian/kickrate/pkg/logger"
	"github.com/okian/kickrate/pkg/metrics"
)

// BatchItem is the result of one match in a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Index  int
	Result *model.RatingResult
	Err    error
}

// Service rates matches and settles them into the chemistry ledger.
type Service struct {
	mu sync.RWMutex

	// Core components
	params  rating.Params
	engine  *rating.Engine
	ledger  chemistry.Ledger
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	// Configuration
	workerCount  int
	queueSize    int
	maxBatchSize int
	dedupeSize   int

	// State
	started bool
	cancel  context.CancelFunc
	rated   atomic.Int64
	settled atomic.Int64

	logger logger.Logger
}

// New constructs a Service. Single match operations work right away;
// RateBatch needs Start.
func New(opts ...Option) *Service {
	s := &Service{
		params:       rating.DefaultParams(),
		workerCount:  runtime.NumCPU(),
		queueSize:    10_000,
		maxBatchSize: 1_000,
		dedupeSize:   50_000,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.ledger == nil {
		s.ledger = chemistry.NewInMemoryLedger()
	}
	s.engine = rating.NewEngine(rating.WithParams(s.params))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	return s
}

// Params returns the engine coefficients in use.
func (s *Service) Params() rating.Params {
	return s.engine.Params()
}

// Start launches the batch worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting rating service...")

	// Workers outlive the caller's ctx; Stop ends them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatchSize", s.maxBatchSize),
	)

	return nil
}

// Stop drains queued batch jobs and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping rating service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "rating service stopped")
}

// RateMatch computes the rating deltas of one match. Players whose input
// carries no chemistry get their history from the ledger.
func (s *Service) RateMatch(ctx context.Context, in model.MatchInput) (model.RatingResult, error) { //nolint:gocritic // hugeParam: MatchInput is a request value
	res, err := s.rate(ctx, &in)
	if err != nil {
		return model.RatingResult{}, err
	}
	return model.NewRatingResult(in.MatchID, res), nil
}

func (s *Service) rate(ctx context.Context, in *model.MatchInput) (rating.Result, error) {
	start := time.Now()

	if err := in.Validate(); err != nil {
		metrics.RecordRatingFailure("invalid_input")
		s.logger.Warn(ctx, "rejected match input", logger.String("match_id", in.MatchID), logger.Error(err))
		return rating.Result{}, err
	}

	home, err := s.buildSide(ctx, &in.Home)
	if err != nil {
		metrics.RecordRatingFailure("side_size")
		return rating.Result{}, fmt.Errorf("home: %w", err)
	}
	away, err := s.buildSide(ctx, &in.Away)
	if err != nil {
		metrics.RecordRatingFailure("side_size")
		return rating.Result{}, fmt.Errorf("away: %w", err)
	}

	res := s.engine.Rate(rating.NewMatch(home, away, in.Goals()))

	s.rated.Add(1)
	metrics.RecordMatchRated(res.Home.Outcome.String())
	metrics.RecordPot(res.Home.Pot)
	for _, d := range res.Deltas {
		metrics.RecordDelta(d)
	}
	metrics.RecordRatingLatency(float64(time.Since(start).Microseconds()) / 1000)

	s.logger.Debug(ctx, "match rated",
		logger.String("match_id", in.MatchID),
		logger.Int("home_goals", res.Home.Goals),
		logger.Int("away_goals", res.Away.Goals),
		logger.Float64("home_expected", res.Home.Expected),
		logger.Float64("home_pot", res.Home.Pot),
	)

	return res, nil
}

func (s *Service) buildSide(ctx context.Context, in *model.SideInput) (*rating.Side, error) {
	ids := in.IDs()
	members := make([]*rating.Participant, len(in.Players))
	for i := range in.Players {
		p := &in.Players[i]
		var chem []rating.ChemistryRecord
		if p.Chemistry != nil {
			chem = p.ChemistryRecords()
		} else {
			for _, r := range s.ledger.Records(ctx, p.PlayerID, ids) {
				chem = append(chem, rating.ChemistryRecord(r))
			}
		}
		members[i] = s.engine.NewParticipant(p.State(), ids, chem)
	}
	return rating.NewSide(members, in.ResolveGoalkeeper())
}

// RateBatch rates independent matches concurrently and returns one item per
// input, in input order. Matches the queue cannot take fail individually
// with ErrBackpressure.
func (s *Service) RateBatch(ctx context.Context, inputs []model.MatchInput) ([]BatchItem, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if len(inputs) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(inputs), s.maxBatchSize)
	}

	items := make([]BatchItem, len(inputs))
	replies := make(chan queue.Outcome, len(inputs))
	pending := 0
	for i := range inputs {
		items[i].Index = i
		err := q.Enqueue(ctx, queue.Job{
			ID:    uuid.NewString(),
			Index: i,
			Match: inputs[i],
			Reply: replies,
		})
		if err != nil {
			items[i].Err = fmt.Errorf("%w: %w", ErrBackpressure, err)
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		select {
		case out := <-replies:
			if out.Err != nil {
				items[out.Index].Err = out.Err
				continue
			}
			res := out.Result
			items[out.Index].Result = &res
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	metrics.UpdateQueueSize(q.Len(ctx))
	return items, nil
}

// Settle rates a match and folds its outcome into the chemistry ledger.
// Each match id settles at most once.
func (s *Service) Settle(ctx context.Context, in model.MatchInput) (model.RatingResult, error) { //nolint:gocritic // hugeParam: MatchInput is a request value
	if in.MatchID == "" {
		return model.RatingResult{}, ErrMissingMatchID
	}
	if s.deduper.SeenAndRecord(ctx, in.MatchID) {
		metrics.RecordSettlementDuplicate()
		return model.RatingResult{}, fmt.Errorf("%w: %s", ErrAlreadySettled, in.MatchID)
	}

	res, err := s.rate(ctx, &in)
	if err != nil {
		s.deduper.Unrecord(ctx, in.MatchID)
		return model.RatingResult{}, err
	}

	s.ledger.Record(ctx, in.Home.IDs(), res.Home.Outcome)
	s.ledger.Record(ctx, in.Away.IDs(), res.Away.Outcome)

	s.settled.Add(1)
	metrics.RecordSettlement()
	metrics.UpdateChemistryPairs(s.ledger.Size())
	s.logger.Info(ctx, "match settled",
		logger.String("match_id", in.MatchID),
		logger.String("home_outcome", res.Home.Outcome.String()),
	)

	return model.NewRatingResult(in.MatchID, res), nil
}

// Chemistry returns the shared history of players a and b.
func (s *Service) Chemistry(ctx context.Context, a, b int) (model.ChemistryRecord, error) {
	return s.ledger.Pair(ctx, a, b)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"maxBatchSize":   s.maxBatchSize,
		"matchesRated":   s.rated.Load(),
		"matchesSettled": s.settled.Load(),
		"settledTracked": s.deduper.Size(),
		"chemistryPairs": s.ledger.Size(),
	}

	if s.started {
		queueLen := s.queue.Len(context.Background())
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}
