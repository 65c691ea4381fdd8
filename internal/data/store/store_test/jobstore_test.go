package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/data/redisStore"
	"github.com/akolanti/studypadi/internal/data/store"
	"github.com/akolanti/studypadi/internal/domain/jobModel"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internalStore := newRedis(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		OwnerId: "owner",
		JobType: jobModel.JobTypeIngest,
		Status:  jobModel.JobStatusComplete,
		Phase:   jobModel.PhaseDone,
		JobPayload: jobModel.JobPayload{
			FileName: "notes.pdf",
			Content:  []byte("never stored"),
			Result:   &studyModel.IngestResult{DocumentId: "doc-1", SectionsCount: 3},
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.Result == nil || retrievedJob.JobPayload.Result.SectionsCount != 3 {
			t.Errorf("result lost in roundtrip: %+v", retrievedJob.JobPayload.Result)
		}
		if retrievedJob.JobPayload.Content != nil {
			t.Error("upload bytes must not be persisted with the job")
		}
	})

	t.Run("Saved job carries a TTL", func(t *testing.T) {
		if ttl := mr.TTL(jobID); ttl != config.RedisJobStoreTTL {
			t.Errorf("expected TTL %v, got %v", config.RedisJobStoreTTL, ttl)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	_, internalStore := newRedis(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()
}

func TestRedisProgressStore_Timeline(t *testing.T) {
	mr, internalStore := newRedis(t)
	progress := store.TestProgressStore(internalStore)
	ctx := context.Background()

	phases := []jobModel.Phase{jobModel.PhaseQueued, jobModel.PhaseExtracting, jobModel.PhaseStructuring}
	for i, p := range phases {
		event := jobModel.ProgressEvent{Phase: p, Progress: i * 10, StatusText: string(p), At: time.Now().UTC()}
		if err := progress.AppendEvent(ctx, "job-1", event); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	timeline, err := progress.GetTimeline(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(timeline) != 3 {
		t.Fatalf("expected 3 events, got %d", len(timeline))
	}
	for i, e := range timeline {
		if e.Phase != phases[i] {
			t.Errorf("event %d: got %s, want %s", i, e.Phase, phases[i])
		}
	}
	if ttl := mr.TTL("timeline:job-1"); ttl != config.RedisProgressStoreTTL {
		t.Errorf("expected TTL %v, got %v", config.RedisProgressStoreTTL, ttl)
	}

	empty, err := progress.GetTimeline(ctx, "unknown")
	if err != nil || len(empty) != 0 {
		t.Errorf("unknown job should have an empty timeline, got %v, %v", empty, err)
	}
}

func TestInMemoryStores(t *testing.T) {
	ctx := context.Background()
	jobs := store.InitInMemoryJobStore()
	_ = jobs.SaveJob(ctx, jobModel.Job{Id: "a", Phase: jobModel.PhaseQueued})
	if got, ok := jobs.GetJob(ctx, "a"); !ok || got.Phase != jobModel.PhaseQueued {
		t.Errorf("in-memory job roundtrip failed")
	}
	jobs.DeleteJob(ctx, "a")
	if _, ok := jobs.GetJob(ctx, "a"); ok {
		t.Errorf("job not deleted")
	}

	progress := store.InitProgressStore()
	_ = progress.AppendEvent(ctx, "a", jobModel.ProgressEvent{Phase: jobModel.PhaseDone})
	timeline, _ := progress.GetTimeline(ctx, "a")
	if len(timeline) != 1 || timeline[0].Phase != jobModel.PhaseDone {
		t.Errorf("unexpected timeline: %v", timeline)
	}
}
