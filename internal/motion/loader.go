package motion

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"avatar-retarget/internal/logging"
	"avatar-retarget/internal/timeline"
)

// Status is the load state of the selected motion source.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "idle"
	}
}

// Snapshot is an immutable view of the loader. Timeline is non-nil only
// when Status is StatusReady.
type Snapshot struct {
	Ref        string
	Request    uuid.UUID
	Generation uint64
	Status     Status
	Timeline   *timeline.Timeline
	Err        error
}

var idleSnapshot = &Snapshot{Status: StatusIdle}

// Loader runs fetches off the render loop. Only the most recently selected
// reference can install a result; anything older is discarded on arrival.
type Loader struct {
	source Source
	log    *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool

	current atomic.Pointer[Snapshot]
	wg      sync.WaitGroup
}

// NewLoader creates a loader over src. A nil logger discards output.
func NewLoader(src Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	l := &Loader{source: src, log: logger}
	l.current.Store(idleSnapshot)
	return l
}

// Current returns the latest installed snapshot. Safe to call every tick.
func (l *Loader) Current() *Snapshot {
	return l.current.Load()
}

// Timeline is shorthand for the ready timeline, or nil.
func (l *Loader) Timeline() *timeline.Timeline {
	return l.Current().Timeline
}

// Select starts loading ref and returns its generation. The previous
// request is cancelled. An empty ref returns the loader to idle. After
// Close, Select does nothing and returns the last generation.
func (l *Loader) Select(ctx context.Context, ref string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.log.Debug("select after close ignored", "ref", ref)
		return l.gen
	}

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	gen := l.gen

	if ref == "" {
		l.current.Store(&Snapshot{Generation: gen, Status: StatusIdle})
		return gen
	}

	reqID := uuid.New()
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.current.Store(&Snapshot{Ref: ref, Request: reqID, Generation: gen, Status: StatusLoading})

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()

		tl, err := l.source.Fetch(fetchCtx, ref)
		snap := &Snapshot{Ref: ref, Request: reqID, Generation: gen}
		if err != nil {
			snap.Status = StatusUnavailable
			snap.Err = err
		} else {
			snap.Status = StatusReady
			snap.Timeline = tl
		}
		l.install(snap)
	}()
	return gen
}

func (l *Loader) install(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if snap.Generation != l.gen {
		l.log.Debug("stale motion result discarded",
			"ref", snap.Ref, "request", snap.Request, "generation", snap.Generation, "latest", l.gen)
		return
	}
	l.current.Store(snap)

	if snap.Err != nil {
		l.log.Warn("motion source unavailable", "ref", snap.Ref, "request", snap.Request, "error", snap.Err)
		return
	}
	l.log.Info("motion loaded",
		"ref", snap.Ref, "request", snap.Request, "frames", snap.Timeline.Len())
}

// Wait blocks until every started fetch has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels the outstanding request and waits for it. Later calls to
// Select are ignored.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
	l.wg.Wait()
}
