package core

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled callback
type TimerID uint64

type timer struct {
	id       TimerID
	owner    EntityID
	due      time.Duration
	seq      uint64
	fn       func()
	canceled bool
	index    int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler runs callbacks against the simulation clock. Callbacks with
// the same due time fire in the order they were scheduled. Every timer
// may name an owning entity; removing the owner cancels the timer.
type Scheduler struct {
	queue   timerHeap
	byID    map[TimerID]*timer
	byOwner map[EntityID]map[TimerID]struct{}
	nextID  TimerID
	seq     uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		byID:    make(map[TimerID]*timer),
		byOwner: make(map[EntityID]map[TimerID]struct{}),
	}
}

// At schedules fn to run once the clock reaches due
func (s *Scheduler) At(owner EntityID, due time.Duration, fn func()) TimerID {
	s.nextID++
	s.seq++
	t := &timer{id: s.nextID, owner: owner, due: due, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t
	if owner != 0 {
		set, ok := s.byOwner[owner]
		if !ok {
			set = make(map[TimerID]struct{})
			s.byOwner[owner] = set
		}
		set[t.id] = struct{}{}
	}
	return t.id
}

// Cancel drops a pending timer. Unknown or fired timers are ignored.
func (s *Scheduler) Cancel(id TimerID) {
	t, ok := s.byID[id]
	if !ok {
		return
	}
	t.canceled = true
	s.forget(t)
}

// CancelOwner drops every pending timer owned by the entity
func (s *Scheduler) CancelOwner(owner EntityID) {
	for id := range s.byOwner[owner] {
		if t, ok := s.byID[id]; ok {
			t.canceled = true
			delete(s.byID, id)
		}
	}
	delete(s.byOwner, owner)
}

// RunDue fires every live timer due at or before now. Timers scheduled by
// a callback for a time already reached run in the same call.
func (s *Scheduler) RunDue(now time.Duration) int {
	fired := 0
	for s.queue.Len() > 0 && s.queue[0].due <= now {
		t := heap.Pop(&s.queue).(*timer)
		if t.canceled {
			continue
		}
		s.forget(t)
		t.fn()
		fired++
	}
	return fired
}

// Pending returns the number of live timers
func (s *Scheduler) Pending() int { return len(s.byID) }

func (s *Scheduler) forget(t *timer) {
	delete(s.byID, t.id)
	if set, ok := s.byOwner[t.owner]; ok {
		delete(set, t.id)
		if len(set) == 0 {
			delete(s.byOwner, t.owner)
		}
	}
}
