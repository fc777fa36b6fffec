package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNilMemoryStore = errors.New("memory store is nil")
	ErrPhasePanic     = errors.New("phase panicked")
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePerceiving Phase = "perceiving"
	PhaseDeciding   Phase = "deciding"
	PhaseActing     Phase = "acting"
	PhaseReflecting Phase = "reflecting"
)

// Fallback names the neutral outcome substituted for a failed phase.
type Fallback string

const (
	FallbackEmptyAggregation   Fallback = "empty_aggregation"
	FallbackDefaultDecision    Fallback = "default_decision"
	FallbackDefaultRevision    Fallback = "default_revision"
	FallbackSkippedMemoryWrite Fallback = "skipped_memory_write"
)

// PhaseError is the error kind returned by a failing phase.
type PhaseError struct {
	Phase    Phase
	Fallback Fallback
	Err      error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed, using %s: %v", e.Phase, e.Fallback, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

type PulseResult struct {
	ID        string
	StartedAt time.Time
	Decision  domain.Decision
	Revised   domain.Decision
	EventKey  domain.EventKey
	Fallbacks []Fallback
}

func (r PulseResult) Degraded() bool {
	return len(r.Fallbacks) > 0
}

type MindOption func(*Mind)

func WithLogger(logger *zap.Logger) MindOption {
	return func(m *Mind) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(clock ports.Clock) MindOption {
	return func(m *Mind) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func WithPulseIDs(next func() string) MindOption {
	return func(m *Mind) {
		if next != nil {
			m.nextID = next
		}
	}
}

// WithStateRestore makes Initialize rebuild the WorldState from the most
// recent memory snapshot.
func WithStateRestore(enabled bool) MindOption {
	return func(m *Mind) {
		m.restoreState = enabled
	}
}

// Mind drives the perceive, think, act and reflect cycle. It exclusively owns
// its aggregator, strategy engine, feedback processor and memory store, and
// runs at most one pulse at a time.
type Mind struct {
	aggregator *Aggregator
	strategy   *StrategyEngine
	feedback   *FeedbackProcessor
	memory     ports.MemoryStore

	logger       *zap.Logger
	clock        ports.Clock
	nextID       func() string
	restoreState bool

	mu       sync.Mutex
	phase    Phase
	state    domain.WorldState
	advisory *domain.Decision
}

func NewMind(memory ports.MemoryStore, analyzer ports.TrendAnalyzer, opts ...MindOption) (*Mind, error) {
	if memory == nil {
		return nil, ErrNilMemoryStore
	}

	m := &Mind{
		memory: memory,
		logger: zap.NewNop(),
		clock:  ports.SystemClock{},
		nextID: func() string { return uuid.NewString() },
		phase:  PhaseIdle,
		state:  domain.NewWorldState(),
	}
	for _, opt := range opts {
		opt(m)
	}

	strategy, err := NewStrategyEngine(analyzer, m.logger)
	if err != nil {
		return nil, fmt.Errorf("create strategy engine: %w", err)
	}

	m.aggregator = NewAggregator(m.logger)
	m.strategy = strategy
	m.feedback = NewFeedbackProcessor(m.logger)
	m.logger = m.logger.Named("mind")

	return m, nil
}

// Initialize inspects the memory store and, when enabled, restores the last
// persisted WorldState. Memory problems are logged and never fatal.
func (m *Mind) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("mind initializing")

	recent, err := m.memory.Recent(ctx, 1)
	if err != nil {
		m.logger.Warn("memory unavailable at startup, starting empty", zap.Error(err))
		return nil
	}

	if m.restoreState && len(recent) == 1 {
		state, err := domain.WorldStateFromSnapshot(recent[0])
		if err != nil {
			m.logger.Warn("ignoring unreadable world state snapshot", zap.Error(err))
		} else {
			m.state = state
		}
	}

	m.logger.Info("mind initialized",
		zap.Bool("restored", m.restoreState && len(recent) == 1),
		zap.Int("actors", len(m.state)),
	)

	return nil
}

// Pulse runs one perceive, act, reflect cycle and returns the broadcast
// decision. It never fails.
func (m *Mind) Pulse(ctx context.Context, reports, outcomes []domain.ActorReport) domain.Decision {
	return m.RunPulse(ctx, reports, outcomes).Decision
}

func (m *Mind) RunPulse(ctx context.Context, reports, outcomes []domain.ActorReport) PulseResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := PulseResult{ID: m.nextID(), StartedAt: m.clock.Now()}
	logger := m.logger.With(zap.String("pulse_id", result.ID))
	logger.Info("pulse started",
		zap.Int("reports", len(reports)),
		zap.Int("outcomes", len(outcomes)),
	)

	if err := m.perceive(ctx, reports); err != nil {
		result.Fallbacks = append(result.Fallbacks, m.recordFailure(logger, err))
	}

	decision, err := m.act(ctx)
	if err != nil {
		result.Fallbacks = append(result.Fallbacks, m.recordFailure(logger, err))
	}
	result.Decision = decision

	revised, key, errs := m.reflect(ctx, outcomes)
	for _, err := range errs {
		result.Fallbacks = append(result.Fallbacks, m.recordFailure(logger, err))
	}
	result.Revised = revised
	result.EventKey = key

	m.phase = PhaseIdle

	logger.Info("pulse complete",
		zap.Stringer("decision", result.Decision),
		zap.Stringer("revised_decision", result.Revised),
		zap.String("event_key", string(result.EventKey)),
		zap.Int("fallbacks", len(result.Fallbacks)),
	)

	return result
}

// Perceive merges a report batch into the current WorldState. On failure the
// state is left untouched and the returned error is a *PhaseError.
func (m *Mind) Perceive(ctx context.Context, reports []domain.ActorReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.setPhase(PhaseIdle)

	err := m.perceive(ctx, reports)
	if err != nil {
		m.recordFailure(m.logger, err)
	}
	return err
}

func (m *Mind) Think(ctx context.Context) domain.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.setPhase(PhaseIdle)

	decision, err := m.think(ctx)
	if err != nil {
		m.recordFailure(m.logger, err)
	}
	return decision
}

// Act produces the decision to broadcast. It does nothing beyond Think.
func (m *Mind) Act(ctx context.Context) domain.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.setPhase(PhaseIdle)

	decision, err := m.act(ctx)
	if err != nil {
		m.recordFailure(m.logger, err)
	}
	return decision
}

// Reflect processes outcome feedback and persists a WorldState snapshot. The
// revised decision is returned even when the memory write was skipped.
func (m *Mind) Reflect(ctx context.Context, outcomes []domain.ActorReport) (domain.Decision, domain.EventKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.setPhase(PhaseIdle)

	revised, key, errs := m.reflect(ctx, outcomes)
	for _, err := range errs {
		m.recordFailure(m.logger, err)
	}
	return revised, key, errors.Join(errs...)
}

func (m *Mind) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.phase
}

func (m *Mind) State() domain.WorldState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Clone()
}

func (m *Mind) History() []domain.Decision {
	return m.strategy.History()
}

// Advisory returns the revised decision from the latest reflection. It is
// context for the next cycle and never replaces a broadcast decision.
func (m *Mind) Advisory() (domain.Decision, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.advisory == nil {
		return domain.Decision{}, false
	}
	return *m.advisory, true
}

func (m *Mind) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.memory.Close()
}

func (m *Mind) perceive(ctx context.Context, reports []domain.ActorReport) (err error) {
	m.setPhase(PhasePerceiving)
	defer recoverPhase(PhasePerceiving, FallbackEmptyAggregation, &err)

	if err := ctx.Err(); err != nil {
		return &PhaseError{Phase: PhasePerceiving, Fallback: FallbackEmptyAggregation, Err: err}
	}

	aggregated := m.aggregator.Aggregate(reports)
	m.state = m.state.Merge(aggregated)

	m.logger.Debug("perception complete",
		zap.Int("actors", len(m.state)),
		zap.Int("reports", m.state.ReportCount()),
	)

	return nil
}

func (m *Mind) think(ctx context.Context) (decision domain.Decision, err error) {
	m.setPhase(PhaseDeciding)
	defer func() {
		if err != nil {
			decision = domain.DefaultDecision()
		}
	}()
	defer recoverPhase(PhaseDeciding, FallbackDefaultDecision, &err)

	return m.strategy.Decide(ctx, m.state), nil
}

func (m *Mind) act(ctx context.Context) (domain.Decision, error) {
	decision, err := m.think(ctx)
	m.setPhase(PhaseActing)

	m.logger.Info("broadcasting decision", zap.Stringer("decision", decision))

	return decision, err
}

func (m *Mind) reflect(ctx context.Context, outcomes []domain.ActorReport) (domain.Decision, domain.EventKey, []error) {
	m.setPhase(PhaseReflecting)

	var errs []error

	revised, err := m.revise(ctx, outcomes)
	if err != nil {
		errs = append(errs, err)
	}
	m.advisory = &revised

	key, err := m.remember(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	return revised, key, errs
}

func (m *Mind) revise(ctx context.Context, outcomes []domain.ActorReport) (revised domain.Decision, err error) {
	defer func() {
		if err != nil {
			revised = domain.DefaultDecision()
		}
	}()
	defer recoverPhase(PhaseReflecting, FallbackDefaultRevision, &err)

	return m.feedback.Process(ctx, outcomes, m.aggregator, m.strategy), nil
}

func (m *Mind) remember(ctx context.Context) (key domain.EventKey, err error) {
	defer recoverPhase(PhaseReflecting, FallbackSkippedMemoryWrite, &err)

	key, err = m.memory.StoreEvent(ctx, m.state.Snapshot())
	if err != nil {
		return "", &PhaseError{Phase: PhaseReflecting, Fallback: FallbackSkippedMemoryWrite, Err: fmt.Errorf("store world state snapshot: %w", err)}
	}

	return key, nil
}

func (m *Mind) setPhase(phase Phase) {
	m.phase = phase
}

func (m *Mind) recordFailure(logger *zap.Logger, err error) Fallback {
	var phaseErr *PhaseError
	if !errors.As(err, &phaseErr) {
		phaseErr = &PhaseError{Phase: m.phase, Fallback: FallbackDefaultDecision, Err: err}
	}

	logger.Error("phase failed, continuing with fallback",
		zap.String("phase", string(phaseErr.Phase)),
		zap.String("fallback", string(phaseErr.Fallback)),
		zap.Error(phaseErr.Err),
	)

	return phaseErr.Fallback
}

func recoverPhase(phase Phase, fallback Fallback, err *error) {
	if r := recover(); r != nil {
		*err = &PhaseError{Phase: phase, Fallback: fallback, Err: fmt.Errorf("%w: %v", ErrPhasePanic, r)}
	}
}
