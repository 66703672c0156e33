package session

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTurnQueueRunsTasksInOrder(t *testing.T) {
	q := NewTurnQueue(newTestLogger())
	defer q.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		q.Enqueue(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}

	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("execution order = %v, want sequential 0..9", order)
		}
	}
}

func TestTurnQueueSurvivesPanickingTask(t *testing.T) {
	q := NewTurnQueue(newTestLogger())
	defer q.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	q.Enqueue(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	ran := make(chan struct{})
	q.Enqueue(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queue stopped processing tasks after a panicking task")
	}
}

func TestTurnQueueCloseDrainsQueuedTasks(t *testing.T) {
	q := NewTurnQueue(newTestLogger())

	ran := make(chan struct{}, 1)
	q.Enqueue(func() { ran <- struct{}{} })
	q.Close()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task enqueued before Close was never run")
	}
}
