package services

import (
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestQueue(buffer int) *TaskQueue {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewTaskQueue(buffer, logger)
}

func TestTaskQueueRunsTasksInOrder(t *testing.T) {
	q := newTestQueue(8)

	var order []int
	done := make(chan struct{})

	for i := 1; i <= 3; i++ {
		i := i
		q.Enqueue(fmt.Sprintf("task-%d", i), func() error {
			order = append(order, i)
			if i == 3 {
				close(done)
			}
			return nil
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}

	q.Stop()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestTaskQueueIsolatesFailures(t *testing.T) {
	q := newTestQueue(8)

	var ran atomic.Bool

	q.Enqueue("failing", func() error {
		return fmt.Errorf("boom")
	})
	q.Enqueue("panicking", func() error {
		panic("boom")
	})
	q.Enqueue("after", func() error {
		ran.Store(true)
		return nil
	})

	q.Stop()
	assert.True(t, ran.Load(), "task after a failure and a panic must still run")
}

func TestTaskQueueStopDrains(t *testing.T) {
	q := newTestQueue(8)

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		q.Enqueue("counted", func() error {
			count.Add(1)
			return nil
		})
	}

	q.Stop()
	assert.Equal(t, int32(5), count.Load())
}

func TestTaskQueueFullDropsInsteadOfBlocking(t *testing.T) {
	q := newTestQueue(1)

	block := make(chan struct{})
	q.Enqueue("blocker", func() error {
		<-block
		return nil
	})

	// Fill the buffer, then overflow it. Enqueue must return promptly.
	for i := 0; i < 10; i++ {
		q.Enqueue("overflow", func() error { return nil })
	}

	close(block)
	q.Stop()
}
