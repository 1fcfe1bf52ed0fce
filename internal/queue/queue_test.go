package queue

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shm-admin/backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestCacheInvalidateTaskRoundTrip(t *testing.T) {
	task, err := NewCacheInvalidateTask(CacheInvalidatePayload{Key: " shm-admin:branding "})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if task.Type() != TaskCacheInvalidate {
		t.Fatalf("task type want %s got %s", TaskCacheInvalidate, task.Type())
	}
	payload, err := ParseCacheInvalidatePayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Key != "shm-admin:branding" {
		t.Fatalf("payload key want shm-admin:branding got %q", payload.Key)
	}
}

func TestCacheInvalidateTaskRejectsEmptyKey(t *testing.T) {
	if _, err := NewCacheInvalidateTask(CacheInvalidatePayload{Key: "  "}); !errors.Is(err, ErrEmptyCacheKey) {
		t.Fatalf("empty key want ErrEmptyCacheKey got %v", err)
	}
	task := asynq.NewTask(TaskCacheInvalidate, []byte(`{"key":""}`))
	if _, err := ParseCacheInvalidatePayload(task); !errors.Is(err, ErrEmptyCacheKey) {
		t.Fatalf("parse empty key want ErrEmptyCacheKey got %v", err)
	}
	if _, err := ParseCacheInvalidatePayload(asynq.NewTask(TaskCacheInvalidate, []byte(`{`))); err == nil {
		t.Fatalf("broken payload should fail")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report disabled")
	}
	if err := client.EnqueueCacheInvalidate(context.Background(), "k"); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 4})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 4 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	opt, cfg = BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" || cfg.Concurrency != 2 {
		t.Fatalf("unexpected fallback config: %+v %+v", opt, cfg)
	}
}

func TestRetryDelayIsLinearAndCapped(t *testing.T) {
	cases := map[int]time.Duration{
		0:   time.Second,
		4:   5 * time.Second,
		29:  30 * time.Second,
		100: 30 * time.Second,
	}
	for n, want := range cases {
		if got := retryDelay(n, nil, nil); got != want {
			t.Fatalf("retry %d want %s got %s", n, want, got)
		}
	}
}

func TestEnqueueDeduplicatesSameKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(&config.QueueConfig{Enabled: true, Host: mr.Host(), Port: mustPort(t, mr.Port())})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := client.EnqueueCacheInvalidate(ctx, "shm-admin:branding"); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}
	if err := client.EnqueueCacheInvalidate(ctx, " "); !errors.Is(err, ErrEmptyCacheKey) {
		t.Fatalf("empty key want ErrEmptyCacheKey got %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = inspector.Close() })
	tasks, err := inspector.ListPendingTasks(DefaultQueue)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("duplicate invalidations should collapse, got %d tasks", len(tasks))
	}
	if tasks[0].MaxRetry != defaultMaxRetry {
		t.Fatalf("max retry want %d got %d", defaultMaxRetry, tasks[0].MaxRetry)
	}
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	n, err := strconv.Atoi(port)
	if err != nil {
		t.Fatalf("bad port %q: %v", port, err)
	}
	return n
}
