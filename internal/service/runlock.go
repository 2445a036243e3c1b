package service

import (
	"context"
	"errors"
	"time"

	"github.com/yourorg/egx-collector/internal/kafka"
	"github.com/yourorg/egx-collector/internal/model"
)

// ErrCollectionInProgress is returned when a collection is triggered for a
// data kind whose previous run has not finished yet.
var ErrCollectionInProgress = errors.New("collection already in progress")

// runLock is a single-slot permit guaranteeing at most one concurrent
// collection run per data kind. Two concurrent runs of the same kind could
// interleave lookup creation and race on duplicate names.
type runLock struct {
	slot chan struct{}
}

func newRunLock() *runLock {
	return &runLock{slot: make(chan struct{}, 1)}
}

// TryAcquire takes the permit without blocking
func (l *runLock) TryAcquire() bool {
	select {
	case l.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns the permit
func (l *runLock) Release() {
	<-l.slot
}

// publishRunEvent publishes the outcome of one collection run
func publishRunEvent(ctx context.Context, producer *kafka.Producer, kind model.DataKind, count int, started time.Time, err error) {
	event := model.CollectionEvent{
		Kind:      kind,
		Success:   err == nil,
		Count:     count,
		Duration:  time.Since(started).String(),
		Timestamp: time.Now(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	producer.PublishCollectionEvent(ctx, event)
}
