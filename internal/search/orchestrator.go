// Package search drives username lookups against the backend and feeds the
// normalizer, the history ledger and the scoring views.
package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/nexus/internal/backend"
	"github.com/MrSnakeDoc/nexus/internal/domain"
	"github.com/MrSnakeDoc/nexus/internal/history"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
)

var (
	ErrEmptyQuery       = errors.New("empty username")
	ErrSearchInProgress = errors.New("a search is already in progress")
	ErrNoPlatforms      = errors.New("no known platform selected")
)

// DefaultTimeout bounds a search when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Backend is the lookup service the orchestrator queries.
type Backend interface {
	Lookup(ctx context.Context, username string, endpoints []string) (domain.RawResults, error)
	Health(ctx context.Context) error
}

// Recorder stores finished searches.
type Recorder interface {
	Record(ctx context.Context, term string, platforms []string) ([]history.Entry, error)
}

type Options struct {
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State        State        `json:"state"`
	Availability Availability `json:"backend"`
	Query        string       `json:"query,omitempty"`
	SearchID     string       `json:"search_id,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	LastError    string       `json:"last_error,omitempty"`
}

// Orchestrator runs one search at a time. Results of the last successful
// search are kept until the next successful one replaces them.
type Orchestrator struct {
	reg     *domain.Registry
	backend Backend
	ledger  Recorder
	log     logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu           sync.Mutex
	state        State
	availability Availability
	results      []domain.SearchResult
	query        string
	searchID     string
	finishedAt   time.Time
	lastErr      error
}

func New(reg *domain.Registry, b Backend, ledger Recorder, log logger.Logger, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Orchestrator{
		reg:          reg,
		backend:      b,
		ledger:       ledger,
		log:          log,
		metrics:      opts.Metrics,
		timeout:      opts.Timeout,
		state:        Idle,
		availability: AvailabilityUnknown,
		results:      []domain.SearchResult{},
	}
}

// Search looks username up on the selected platforms (all of them when
// selected is empty), records it in the history and returns the normalized
// results in registry order.
//
// On failure the previous results are kept. ErrBackendUnreachable also marks
// the backend offline.
func (o *Orchestrator) Search(ctx context.Context, username string, selected []string) ([]domain.SearchResult, error) {
	if username == "" {
		o.countOutcome(metrics.OutcomeRejected)
		return nil, ErrEmptyQuery
	}

	platforms := o.reg.Select(selected)
	if len(platforms) == 0 {
		o.countOutcome(metrics.OutcomeRejected)
		return nil, ErrNoPlatforms
	}

	o.mu.Lock()
	if o.state == Searching {
		o.mu.Unlock()
		o.countOutcome(metrics.OutcomeRejected)
		return nil, ErrSearchInProgress
	}
	id := uuid.NewString()
	o.state = Searching
	o.query = username
	o.searchID = id
	o.mu.Unlock()

	log := o.log.With(logger.String("search_id", id), logger.String("username", username))
	log.Info("search started", logger.Strings("platforms", domain.Names(platforms)))

	lookupCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	raw, err := o.backend.Lookup(lookupCtx, username, domain.Endpoints(platforms))
	if o.metrics != nil {
		o.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, o.fail(log, err)
	}

	results, diag := domain.Normalize(o.reg, raw, username)
	if diag != nil {
		o.diagnose(log, diag)
	}

	entries, err := o.ledger.Record(ctx, username, domain.Names(platforms))
	switch {
	case err != nil:
		// A failed history write does not fail the search.
		log.Error("failed to record search history", logger.Error(err))
	case o.metrics != nil:
		o.metrics.HistoryEntries.Set(float64(len(entries)))
	}

	o.mu.Lock()
	o.state = Succeeded
	o.results = results
	o.finishedAt = time.Now()
	o.lastErr = nil
	o.availability = AvailabilityOnline
	o.mu.Unlock()

	o.setAvailabilityMetric(true)
	o.countOutcome(metrics.OutcomeSucceeded)
	log.Info("search finished",
		logger.Int("results", len(results)),
		logger.Int("found", len(domain.Found(results))),
		logger.Duration("elapsed", time.Since(start)),
	)

	return copyResults(results), nil
}

// Rerun repeats a recorded search with the platforms it was made with.
func (o *Orchestrator) Rerun(ctx context.Context, entry history.Entry) ([]domain.SearchResult, error) {
	return o.Search(ctx, entry.Term, entry.Platforms)
}

func (o *Orchestrator) fail(log logger.Logger, err error) error {
	unreachable := errors.Is(err, backend.ErrBackendUnreachable)

	o.mu.Lock()
	o.state = Failed
	o.finishedAt = time.Now()
	o.lastErr = err
	if unreachable {
		o.availability = AvailabilityOffline
	}
	o.mu.Unlock()

	if unreachable {
		o.setAvailabilityMetric(false)
		o.countOutcome(metrics.OutcomeUnreachable)
		log.Error("search failed, backend unreachable", logger.Error(err))
		return err
	}

	o.countOutcome(metrics.OutcomeFailed)
	log.Warn("search failed", logger.Error(err))
	return err
}

// diagnose logs what Normalize could not map cleanly. None of it fails the
// search.
func (o *Orchestrator) diagnose(log logger.Logger, diag error) {
	problems := []error{diag}
	if joined, ok := diag.(interface{ Unwrap() []error }); ok {
		problems = joined.Unwrap()
	}

	for _, err := range problems {
		var unknown *domain.UnknownKeyError
		var profile *domain.ProfileError
		switch {
		case errors.As(err, &unknown):
			log.Warn("backend returned keys with no registered platform", logger.Strings("keys", unknown.Keys))
			if o.metrics != nil {
				o.metrics.UnknownKeys.Add(float64(len(unknown.Keys)))
			}
		case errors.As(err, &profile):
			log.Warn("profile partly unreadable, keeping what decoded",
				logger.String("platform", profile.Endpoint), logger.Error(profile.Err))
		default:
			log.Warn("unexpected backend payload", logger.Error(err))
		}
	}
}

// CheckHealth probes the backend and updates the availability flag.
func (o *Orchestrator) CheckHealth(ctx context.Context) (Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	err := o.backend.Health(ctx)
	avail := AvailabilityOnline
	if err != nil {
		avail = AvailabilityOffline
	}

	o.mu.Lock()
	prev := o.availability
	o.availability = avail
	o.mu.Unlock()

	o.setAvailabilityMetric(err == nil)
	if prev != avail {
		o.log.Info("backend availability changed",
			logger.String("from", string(prev)),
			logger.String("to", string(avail)))
	}
	return avail, err
}

// Availability returns the last known backend state.
func (o *Orchestrator) Availability() Availability {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.availability
}

// Results returns the results of the last successful search.
func (o *Orchestrator) Results() []domain.SearchResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyResults(o.results)
}

// Reach aggregates the current results against the whole registry.
func (o *Orchestrator) Reach() domain.Reach {
	return domain.AggregateReach(o.Results(), o.reg.Len())
}

// Overview builds the network overview of the current results.
func (o *Orchestrator) Overview() domain.NetworkOverview {
	return domain.BuildNetworkOverview(o.Results(), o.reg.Len())
}

// Registry returns the platform registry searches resolve against.
func (o *Orchestrator) Registry() *domain.Registry { return o.reg }

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Status{
		State:        o.state,
		Availability: o.availability,
		Query:        o.query,
		SearchID:     o.searchID,
	}
	if !o.finishedAt.IsZero() {
		t := o.finishedAt
		s.FinishedAt = &t
	}
	if o.lastErr != nil {
		s.LastError = o.lastErr.Error()
	}
	return s
}

func (o *Orchestrator) countOutcome(outcome string) {
	if o.metrics != nil {
		o.metrics.Searches.WithLabelValues(outcome).Inc()
	}
}

func (o *Orchestrator) setAvailabilityMetric(ok bool) {
	if o.metrics != nil {
		o.metrics.SetBackendAvailable(ok)
	}
}

func copyResults(in []domain.SearchResult) []domain.SearchResult {
	out := make([]domain.SearchResult, len(in))
	copy(out, in)
	return out
}
