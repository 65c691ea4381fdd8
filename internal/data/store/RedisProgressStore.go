package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/data/redisStore"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

const timelinePrefix = "timeline:"

// RedisProgressStore keeps each job's phase events as a Redis list.
type RedisProgressStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

var _ jobModel.ProgressStore = (*RedisProgressStore)(nil)

func GetRedisProgressStore(ctx context.Context) *RedisProgressStore {
	s := redisStore.GetRedisStore(ctx, config.RedisProgressStore)
	if s == nil {
		return nil
	}
	return TestProgressStore(s)
}

func TestProgressStore(store *redisStore.Store) *RedisProgressStore {
	return &RedisProgressStore{
		store:  store,
		logger: logger_i.NewLogger("ProgressStore"),
	}
}

func (s *RedisProgressStore) AppendEvent(ctx context.Context, jobId string, event jobModel.ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = s.store.ListAppend(ctx, timelinePrefix+jobId, data, config.RedisProgressStoreTTL)
	if err != nil {
		s.logger.ForContext(ctx).Error("error saving progress event", "jobId", jobId, "error", err)
	}
	return err
}

func (s *RedisProgressStore) GetTimeline(ctx context.Context, jobId string) ([]jobModel.ProgressEvent, error) {
	raw, err := s.store.ListGetAll(ctx, timelinePrefix+jobId)
	if err != nil {
		return nil, err
	}
	events := make([]jobModel.ProgressEvent, 0, len(raw))
	for _, r := range raw {
		var e jobModel.ProgressEvent
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			s.logger.ForContext(ctx).Warn("skipping unreadable progress event", "jobId", jobId, "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}
