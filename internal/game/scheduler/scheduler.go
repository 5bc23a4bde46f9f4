package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultReadyTolerance is the slack, in seconds, within which an actor's
// next action counts as ready. Absorbs floating-point and measurement jitter.
const DefaultReadyTolerance = 0.01

// Scheduler defers actor actions by relative delays and releases them in
// non-decreasing execution-time order. It is safe for concurrent use.
//
// Pausing freezes dequeuing only: the underlying clock keeps advancing, so a
// long pause causes overdue actions to burst-fire on Resume. This matches the
// engine's historical behaviour and callers depend on it for "catch-up after
// menu" semantics.
type Scheduler struct {
	mu             sync.Mutex
	queue          actionQueue
	actorTimers    map[string]float64
	paused         bool
	start          time.Time
	now            func() time.Time
	seq            uint64
	readyTolerance float64
	cancelGen      map[string]uint64
	clearGen       uint64
	logger         *zap.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the wall clock. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithReadyTolerance overrides DefaultReadyTolerance.
//
// Precondition: tolerance >= 0.
func WithReadyTolerance(tolerance float64) Option {
	return func(s *Scheduler) { s.readyTolerance = tolerance }
}

// New creates an empty Scheduler whose epoch is the moment of creation.
//
// Precondition: logger must be non-nil.
func New(logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		actorTimers:    make(map[string]float64),
		cancelGen:      make(map[string]uint64),
		now:            time.Now,
		readyTolerance: DefaultReadyTolerance,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

// CurrentTime returns the scheduler clock: seconds since creation.
func (s *Scheduler) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTimeLocked()
}

func (s *Scheduler) currentTimeLocked() float64 {
	return s.now().Sub(s.start).Seconds()
}

// Pause stops dequeuing. Queued actions and the clock are unaffected.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume re-enables dequeuing. Actions that became overdue during the pause
// fire on the next GetReadyActions call.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

// IsPaused reports whether dequeuing is currently frozen.
func (s *Scheduler) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// ScheduleAction queues an action for actorID to execute after delay seconds.
// Negative delays are clamped to zero. The actor's next-action bookkeeping
// entry is overwritten; it serves only the IsActorReady/ActorActionDelay
// queries and does not prevent queuing multiple actions per actor.
func (s *Scheduler) ScheduleAction(actorID, actionType string, delay float64, data map[string]any, cb Callback) {
	if delay < 0 {
		delay = 0
	}
	if data == nil {
		data = make(map[string]any)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	executeTime := s.currentTimeLocked() + delay
	s.seq++
	action := &TimedAction{
		ExecuteTime: executeTime,
		ActorID:     actorID,
		ActionType:  actionType,
		ActionData:  data,
		Callback:    cb,
		seq:         s.seq,
	}
	heap.Push(&s.queue, action)
	s.actorTimers[actorID] = executeTime
}

// ScheduleRecurringAction queues an action that reschedules itself with the
// same interval every time it fires. There is no stop handle: the chain ends
// when CancelActorActions or ClearAllActions removes it. A cancellation that
// lands while the callback is running also ends the chain, so a callback
// cancelling its own actor leaves no stale link to fire later.
func (s *Scheduler) ScheduleRecurringAction(actorID, actionType string, interval float64, data map[string]any, cb Callback) {
	var recurring Callback
	recurring = func(a *TimedAction) {
		s.mu.Lock()
		gen, clear := s.cancelGen[actorID], s.clearGen
		s.mu.Unlock()

		if cb != nil {
			cb(a)
		}

		s.mu.Lock()
		cancelled := s.cancelGen[actorID] != gen || s.clearGen != clear
		s.mu.Unlock()
		if !cancelled {
			s.ScheduleAction(actorID, actionType, interval, data, recurring)
		}
	}
	s.ScheduleAction(actorID, actionType, interval, data, recurring)
}

// CancelActorActions removes every queued action belonging to actorID and
// clears its bookkeeping entry.
//
// Postcondition: ActorActionDelay(actorID) reports no pending action; none of
// the removed callbacks will be invoked. Returns the number removed.
func (s *Scheduler) CancelActorActions(actorID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.queue.removeActor(actorID)
	delete(s.actorTimers, actorID)
	s.cancelGen[actorID]++
	return removed
}

// ActorActionDelay returns the seconds until actorID's next action fires.
// The second return is false when the actor has no pending action.
//
// Postcondition: a returned delay is never negative.
func (s *Scheduler) ActorActionDelay(actorID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.actorTimers[actorID]
	if !ok {
		return 0, false
	}
	delay := next - s.currentTimeLocked()
	if delay < 0 {
		delay = 0
	}
	return delay, true
}

// IsActorReady reports whether actorID's next action is due within the ready
// tolerance.
func (s *Scheduler) IsActorReady(actorID string) bool {
	delay, ok := s.ActorActionDelay(actorID)
	return ok && delay <= s.readyTolerance
}

// GetReadyActions pops every action whose execution time has arrived, in
// time order with insertion-order ties. Returns nil while paused.
func (s *Scheduler) GetReadyActions() []*TimedAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return nil
	}

	var ready []*TimedAction
	now := s.currentTimeLocked()
	for s.queue.Len() > 0 && s.queue[0].ExecuteTime <= now {
		action := heap.Pop(&s.queue).(*TimedAction)
		ready = append(ready, action)

		// Clear the bookkeeping entry only when it refers to this action;
		// a later ScheduleAction may already have overwritten it.
		if t, ok := s.actorTimers[action.ActorID]; ok && t == action.ExecuteTime {
			delete(s.actorTimers, action.ActorID)
		}
	}
	return ready
}

// ProcessReadyActions pops all ready actions and invokes their callbacks.
// Callbacks run without the scheduler lock held, so they may schedule or
// cancel further actions. A panicking callback is recovered and logged; it
// does not abort processing of the remaining ready actions.
func (s *Scheduler) ProcessReadyActions() []*TimedAction {
	ready := s.GetReadyActions()
	for _, action := range ready {
		s.invoke(action)
	}
	return ready
}

func (s *Scheduler) invoke(action *TimedAction) {
	if action.Callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("timed action callback panicked",
				zap.String("actor_id", action.ActorID),
				zap.String("action_type", action.ActionType),
				zap.Any("panic", r),
			)
		}
	}()
	action.Callback(action)
}

// NextActionTime returns the absolute time of the earliest queued action.
// The second return is false when the queue is empty.
func (s *Scheduler) NextActionTime() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].ExecuteTime, true
}

// TimeUntilNextAction returns the seconds until the earliest queued action.
// The second return is false when the queue is empty.
func (s *Scheduler) TimeUntilNextAction() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Len() == 0 {
		return 0, false
	}
	delay := s.queue[0].ExecuteTime - s.currentTimeLocked()
	if delay < 0 {
		delay = 0
	}
	return delay, true
}

// QueueSize returns the number of queued actions.
func (s *Scheduler) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// ActorCount returns the number of actors with bookkeeping entries.
func (s *Scheduler) ActorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actorTimers)
}

// ClearAllActions drops every queued action and all actor bookkeeping.
func (s *Scheduler) ClearAllActions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	s.actorTimers = make(map[string]float64)
	s.clearGen++
}

// DebugInfo is a point-in-time snapshot of scheduler state.
type DebugInfo struct {
	CurrentTime float64
	Paused      bool
	QueueSize   int
	ActorCount  int
	Actors      []string
}

// Debug returns a snapshot of scheduler state for diagnostics.
func (s *Scheduler) Debug() DebugInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	actors := make([]string, 0, len(s.actorTimers))
	for id := range s.actorTimers {
		actors = append(actors, id)
	}
	return DebugInfo{
		CurrentTime: s.currentTimeLocked(),
		Paused:      s.paused,
		QueueSize:   s.queue.Len(),
		ActorCount:  len(s.actorTimers),
		Actors:      actors,
	}
}
