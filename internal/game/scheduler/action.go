// Package scheduler implements the timed action scheduler: a priority queue
// of deferred actor actions keyed by absolute execution time, with per-actor
// bookkeeping, pause/resume, and bulk cancellation.
package scheduler

import "container/heap"

// Callback is invoked when a TimedAction fires. Panics raised by a Callback
// are recovered and logged by ProcessReadyActions; they never propagate.
type Callback func(*TimedAction)

// TimedAction is one scheduled action. Actions are ordered by ExecuteTime
// ascending; equal times preserve insertion order.
type TimedAction struct {
	// ExecuteTime is the absolute execution time in seconds since the
	// scheduler was created.
	ExecuteTime float64
	// ActorID identifies the actor performing the action. Opaque to the
	// scheduler beyond bookkeeping and cancellation.
	ActorID string
	// ActionType is a free-form tag such as "attack" or "respawn".
	ActionType string
	// ActionData carries an opaque payload through to the callback.
	ActionData map[string]any
	// Callback runs when the action is processed. May be nil.
	Callback Callback

	// seq is the insertion sequence number used to keep equal-time actions
	// in FIFO order.
	seq uint64
	// index is the heap index maintained by actionQueue.
	index int
}

// actionQueue is a min-heap of *TimedAction implementing container/heap.
type actionQueue []*TimedAction

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].ExecuteTime != q[j].ExecuteTime {
		return q[i].ExecuteTime < q[j].ExecuteTime
	}
	return q[i].seq < q[j].seq
}

func (q actionQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *actionQueue) Push(x any) {
	a := x.(*TimedAction)
	a.index = len(*q)
	*q = append(*q, a)
}

func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	a.index = -1
	*q = old[:n-1]
	return a
}

// removeActor filters out every action belonging to actorID and restores
// heap order. Returns the number of actions removed.
func (q *actionQueue) removeActor(actorID string) int {
	kept := (*q)[:0]
	removed := 0
	for _, a := range *q {
		if a.ActorID == actorID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	// Zero the tail so removed actions do not pin their payloads.
	for i := len(kept); i < len(*q); i++ {
		(*q)[i] = nil
	}
	*q = kept
	if removed > 0 {
		heap.Init(q)
	}
	return removed
}
