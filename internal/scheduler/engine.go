// Package scheduler raises an alert shortly before a task's deadline.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/hikari/internal/model"
)

var (
	ErrInvalidDeadline = errors.New("scheduler: invalid deadline")
	ErrEngineStopped   = errors.New("scheduler: engine stopped")
)

type DeadlineEvent struct {
	TaskID   string
	Title    string
	Deadline time.Time
	FireAt   time.Time
}

type queueItem struct {
	event DeadlineEvent
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.FireAt.Before(pq[j].event.FireAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers each task's alert at most once. Events that find the
// output buffer full are counted and dropped.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	fired   map[string]time.Time
	out     chan DeadlineEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		fired:  make(map[string]time.Time),
		out:    make(chan DeadlineEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan DeadlineEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev DeadlineEvent) error {
	if ev.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	if ev.FireAt.IsZero() {
		ev.FireAt = ev.Deadline
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	if at, ok := e.fired[ev.TaskID]; ok && at.Equal(ev.Deadline) {
		return nil
	}
	e.removeLocked(ev.TaskID)
	heap.Push(&e.queue, queueItem{event: ev})
	e.signalWakeup()
	return nil
}

// Replace swaps the pending set for events. Alerts already delivered for
// an unchanged deadline are not repeated.
func (e *Engine) Replace(events []DeadlineEvent) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrEngineStopped
	}
	e.queue = e.queue[:0]
	e.mu.Unlock()

	for _, ev := range events {
		if err := e.Schedule(ev); err != nil {
			return err
		}
	}
	e.mu.Lock()
	e.signalWakeup()
	e.mu.Unlock()
	return nil
}

func (e *Engine) Cancel(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(taskID)
	e.signalWakeup()
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// DeadlineEvents builds one event per unfinished task whose deadline is
// still ahead of now, firing lead before the deadline.
func DeadlineEvents(tasks []model.Task, now time.Time, lead time.Duration) []DeadlineEvent {
	out := make([]DeadlineEvent, 0)
	for _, t := range tasks {
		if t.Deadline == nil || t.Status == model.StatusDone || !t.Deadline.After(now) {
			continue
		}
		out = append(out, DeadlineEvent{
			TaskID:   t.ID,
			Title:    t.Title,
			Deadline: *t.Deadline,
			FireAt:   t.Deadline.Add(-lead),
		})
	}
	return out
}

func (e *Engine) removeLocked(taskID string) {
	for i := range e.queue {
		if e.queue[i].event.TaskID == taskID {
			heap.Remove(&e.queue, i)
			return
		}
	}
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (DeadlineEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return DeadlineEvent{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []DeadlineEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]DeadlineEvent, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].event
		if next.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		e.fired[item.event.TaskID] = item.event.Deadline
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
