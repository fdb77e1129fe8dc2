// Package tracker watches one submission from creation to its terminal
// grading result. It owns the polling decision: when to fetch again, when to
// stop, and how failures end a tracking session.
package tracker

import (
	"context"
	"strings"
	"sync"
	"time"

	"vjudge/internal/grading"
	pkgerrors "vjudge/pkg/errors"
	"vjudge/pkg/utils/logger"

	"go.uber.org/zap"
)

// DefaultInterval is the delay between two fetches while a submission is
// still being graded.
const DefaultInterval = 3 * time.Second

// Phase tags a tracker state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhasePolling
	PhaseSettled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePolling:
		return "polling"
	case PhaseSettled:
		return "settled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is one observable tracker emission. Submission is nil while loading
// and on failures that produced no snapshot; Err is set only when failed.
type State struct {
	Phase      Phase
	Submission *grading.Submission
	Err        *pkgerrors.Error
}

// Fetcher fetches the current record for a submission identifier.
// *grading.Client satisfies it; tests substitute fakes.
type Fetcher interface {
	GetSubmission(ctx context.Context, id string) (grading.Submission, error)
}

// Tracker creates tracking sessions. Sessions are independent: two trackings
// share nothing but the fetcher's transport.
type Tracker struct {
	fetcher  Fetcher
	interval time.Duration
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func New(fetcher Fetcher, opts ...Option) *Tracker {
	t := &Tracker{
		fetcher:  fetcher,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tracking is one live session. Consumers read Updates until it closes and
// call Stop when they stop observing.
type Tracking struct {
	updates  chan State
	stop     chan struct{}
	stopOnce sync.Once
}

// Updates delivers tracker states, most recent wins: a slow consumer sees
// the latest state, not every intermediate one. The channel closes when the
// session ends, naturally or via Stop.
func (tr *Tracking) Updates() <-chan State {
	return tr.updates
}

// Stop ends the session between fetch cycles. Idempotent; calling it after
// the session already settled or failed is a no-op. Once Stop returns no
// further states are emitted.
func (tr *Tracking) Stop() {
	tr.stopOnce.Do(func() {
		close(tr.stop)
	})
}

func (tr *Tracking) stopped(ctx context.Context) bool {
	select {
	case <-tr.stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// emit replaces any unconsumed state with the new one.
func (tr *Tracking) emit(s State) {
	for {
		select {
		case tr.updates <- s:
			return
		default:
			select {
			case <-tr.updates:
			default:
			}
		}
	}
}

// Start begins tracking a submission. An empty identifier fails immediately
// with no network call. The first fetch happens without delay.
func (t *Tracker) Start(ctx context.Context, id string) (*Tracking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.InvalidSubmissionID)
	}

	tr := &Tracking{
		updates: make(chan State, 1),
		stop:    make(chan struct{}),
	}
	tr.emit(State{Phase: PhaseLoading})
	go t.run(ctx, id, tr)
	return tr, nil
}

// run is the polling loop. Strictly sequential per session: fetch, classify,
// emit, then either schedule exactly one future fetch or end. At most one
// fetch is ever in flight or scheduled.
func (t *Tracker) run(ctx context.Context, id string, tr *Tracking) {
	defer close(tr.updates)

	for {
		sub, err := t.fetcher.GetSubmission(ctx, id)

		// Cancellation wins over whatever the fetch returned.
		if tr.stopped(ctx) {
			logger.Debug(ctx, "tracking stopped", zap.String("submission_id", id))
			return
		}

		if err != nil {
			// Fetch errors are terminal for the session; a user retry starts
			// a fresh tracking.
			e := pkgerrors.GetError(err)
			logger.Warn(ctx, "tracking failed",
				zap.String("submission_id", id),
				zap.Int("code", int(e.Code)),
				zap.String("message", e.Error()),
			)
			tr.emit(State{Phase: PhaseFailed, Err: e})
			return
		}

		if grading.IsTerminal(sub.Status) {
			logger.Info(ctx, "submission settled",
				zap.String("submission_id", id),
				zap.String("status", sub.Status),
			)
			tr.emit(State{Phase: PhaseSettled, Submission: &sub})
			return
		}

		tr.emit(State{Phase: PhasePolling, Submission: &sub})

		select {
		case <-tr.stop:
			return
		case <-ctx.Done():
			return
		case <-time.After(t.interval):
		}
	}
}
