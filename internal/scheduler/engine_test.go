package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/hikari/internal/model"
)

func TestEngineEmitsInFireOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(DeadlineEvent{TaskID: "later", Deadline: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(DeadlineEvent{TaskID: "sooner", Deadline: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(DeadlineEvent{
			TaskID:   fmt.Sprintf("task-%d", i),
			Deadline: at,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesDeadline(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(DeadlineEvent{TaskID: "bad"}); !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("expected ErrInvalidDeadline, got %v", err)
	}
}

func TestScheduleReplacesPendingEventForSameTask(t *testing.T) {
	engine := NewEngine(4)
	far := time.Now().Add(time.Hour)
	if err := engine.Schedule(DeadlineEvent{TaskID: "t1", Deadline: far}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(DeadlineEvent{TaskID: "t1", Deadline: far.Add(time.Minute)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending event, got %d", engine.Pending())
	}
	engine.Cancel("t1")
	if engine.Pending() != 0 {
		t.Fatalf("expected no pending events after cancel, got %d", engine.Pending())
	}
}

func TestReplaceDoesNotRepeatDeliveredAlert(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	ev := DeadlineEvent{TaskID: "t1", Title: "Ship", Deadline: time.Now().Add(10 * time.Millisecond)}
	if err := engine.Replace([]DeadlineEvent{ev}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got := waitEvent(t, engine.C(), time.Second)
	if got.Title != "Ship" {
		t.Fatalf("unexpected event: %#v", got)
	}

	if err := engine.Replace([]DeadlineEvent{ev}); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected delivered alert to stay delivered, pending=%d", engine.Pending())
	}
}

func TestStoppedEngineRejectsSchedule(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	err := engine.Schedule(DeadlineEvent{TaskID: "x", Deadline: time.Now()})
	if !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
}

func TestDeadlineEvents(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	soon := now.Add(30 * time.Minute)
	past := now.Add(-time.Minute)
	tasks := []model.Task{
		{ID: "soon", Title: "Soon", Status: model.StatusTodo, Deadline: &soon},
		{ID: "past", Status: model.StatusTodo, Deadline: &past},
		{ID: "done", Status: model.StatusDone, Deadline: &soon},
		{ID: "none", Status: model.StatusInProgress},
	}

	events := DeadlineEvents(tasks, now, 15*time.Minute)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].TaskID != "soon" || !events[0].FireAt.Equal(soon.Add(-15*time.Minute)) {
		t.Fatalf("unexpected event: %#v", events[0])
	}
}

func waitEvent(t *testing.T, ch <-chan DeadlineEvent, timeout time.Duration) DeadlineEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return DeadlineEvent{}
	}
}
