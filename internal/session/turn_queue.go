package session

import "log/slog"

// TurnQueue is the Turn Serializer (spec.md §4.4): a per-session FIFO of
// deferred generation tasks. Tasks run in submission order; the next task
// starts only after the previous task's release point. If a task panics,
// the queue logs it and continues — the queue is a safety net, not a
// propagation path.
//
// Grounded on the teacher's executor_registry.go single-owner-per-key
// registration pattern, simplified to a single buffered-channel worker
// goroutine per session: the registry's global map isn't needed because
// spec.md scopes serialization to one session, not a process-wide pool of
// turns.
type TurnQueue struct {
	tasks  chan func()
	logger *slog.Logger
}

// NewTurnQueue starts the worker goroutine and returns the queue handle.
func NewTurnQueue(logger *slog.Logger) *TurnQueue {
	q := &TurnQueue{
		tasks:  make(chan func(), 16),
		logger: logger,
	}
	go q.run()
	return q
}

func (q *TurnQueue) run() {
	for task := range q.tasks {
		q.runOne(task)
	}
}

// runOne isolates a single task's panic so one bad turn can never wedge
// the serializer for every turn behind it.
func (q *TurnQueue) runOne(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("turn task panicked; queue continues", "panic", r)
		}
	}()
	task()
}

// Enqueue appends a task to the FIFO. Stale tasks (whose token no longer
// matches the session's live token) are expected to check that themselves
// at the top of the closure and return immediately without doing work.
func (q *TurnQueue) Enqueue(task func()) {
	q.tasks <- task
}

// Close stops accepting new tasks. Already-queued tasks still run; the
// worker goroutine exits once it drains them, matching the lifecycle's
// "trip current token, let the queue drain" close sequence (spec.md
// §4.5.1).
func (q *TurnQueue) Close() {
	close(q.tasks)
}
