package services

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// task is one unit of background work
type task struct {
	name string
	fn   func() error
}

// TaskQueue runs side effects after the triggering request has already been
// answered. Tasks are isolated from each other: an error or panic in one is
// logged and the worker moves on.
type TaskQueue struct {
	tasks    chan task
	logger   *logrus.Logger
	stopOnce sync.Once
	done     chan struct{}
}

// NewTaskQueue creates a queue and starts its worker goroutine
func NewTaskQueue(buffer int, logger *logrus.Logger) *TaskQueue {
	if buffer <= 0 {
		buffer = 64
	}

	q := &TaskQueue{
		tasks:  make(chan task, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}

	go q.worker()
	return q
}

// Enqueue schedules fn to run on the worker. When the queue is full the
// task is dropped with a log entry rather than blocking the request path.
func (q *TaskQueue) Enqueue(name string, fn func() error) {
	select {
	case q.tasks <- task{name: name, fn: fn}:
	default:
		q.logger.WithField("task", name).Warn("Task queue full, dropping task")
	}
}

// Stop closes the queue and waits for queued tasks to drain
func (q *TaskQueue) Stop() {
	q.stopOnce.Do(func() {
		close(q.tasks)
	})
	<-q.done
}

func (q *TaskQueue) worker() {
	defer close(q.done)

	for t := range q.tasks {
		q.run(t)
	}
}

func (q *TaskQueue) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.WithFields(logrus.Fields{
				"task":  t.name,
				"panic": r,
			}).Error("Background task panicked")
		}
	}()

	if err := t.fn(); err != nil {
		q.logger.WithFields(logrus.Fields{
			"task":  t.name,
			"error": err,
		}).Error("Background task failed")
	}
}
