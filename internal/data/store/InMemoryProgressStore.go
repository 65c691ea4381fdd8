package store

import (
	"context"
	"sync"

	"github.com/akolanti/studypadi/internal/domain/jobModel"
)

type InMemoryProgressStore struct {
	lock   *sync.RWMutex
	events map[string][]jobModel.ProgressEvent
}

var _ jobModel.ProgressStore = (*InMemoryProgressStore)(nil)

func InitProgressStore() *InMemoryProgressStore {
	return &InMemoryProgressStore{
		lock:   new(sync.RWMutex),
		events: make(map[string][]jobModel.ProgressEvent),
	}
}

func (store *InMemoryProgressStore) AppendEvent(ctx context.Context, jobId string, event jobModel.ProgressEvent) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.events[jobId] = append(store.events[jobId], event)
	return nil
}

func (store *InMemoryProgressStore) GetTimeline(ctx context.Context, jobId string) ([]jobModel.ProgressEvent, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	return append([]jobModel.ProgressEvent{}, store.events[jobId]...), nil
}
