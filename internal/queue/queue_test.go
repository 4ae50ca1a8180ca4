package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

func TestEnqueueWithRetrySucceedsAfterFailures(t *testing.T) {
	q := new(MockQueue)
	q.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down")).Twice()
	q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()

	task := Task{Type: TaskTypeIndex, Payload: []byte(`{}`)}
	err := EnqueueWithRetry(context.Background(), q, task, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	q.AssertExpectations(t)
}

func TestEnqueueWithRetryExhaustsAttempts(t *testing.T) {
	q := new(MockQueue)
	q.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down")).Times(3)

	task := Task{Type: TaskTypeIndex}
	err := EnqueueWithRetry(context.Background(), q, task, 3, time.Millisecond)
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	q.AssertExpectations(t)
}

func TestEnqueueWithRetryRespectsContext(t *testing.T) {
	q := new(MockQueue)
	q.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := Task{Type: TaskTypeIndex}
	err := EnqueueWithRetry(ctx, q, task, 5, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
