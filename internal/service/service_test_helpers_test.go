package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shm-admin/backend/internal/cache"
	"github.com/shm-admin/backend/internal/models"
	"github.com/shm-admin/backend/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDatabase(t *testing.T, probe bool) *models.Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database := models.NewDatabase(db)
	if probe {
		if err := database.Probe(context.Background()); err != nil {
			t.Fatalf("probe database failed: %v", err)
		}
	}
	return database
}

func setupCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewStoreWithClient(client, "shm-admin")
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping miniredis failed: %v", err)
	}
	return store, mr
}

// setupDisconnectedCache 已配置但尚未连通的缓存
func setupDisconnectedCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStoreWithClient(client, "shm-admin"), mr
}

func mustDoc(t *testing.T, raw string) models.Document {
	t.Helper()
	doc, err := models.ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("parse %q failed: %v", raw, err)
	}
	return doc
}

func mustField(t *testing.T, doc models.Document, name string) string {
	t.Helper()
	fields, err := doc.Object()
	if err != nil {
		t.Fatalf("document %s is not an object: %v", doc, err)
	}
	return string(fields[name])
}

type fakeQueue struct {
	mu      sync.Mutex
	enabled bool
	err     error
	keys    []string
}

func (q *fakeQueue) Enabled() bool { return q.enabled }

func (q *fakeQueue) EnqueueCacheInvalidate(_ context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.keys = append(q.keys, key)
	return nil
}

type fakeMetrics struct {
	mu            sync.Mutex
	lookups       map[string]int
	invalidations map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{lookups: map[string]int{}, invalidations: map[string]int{}}
}

func (m *fakeMetrics) ObserveCacheLookup(area, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[area+"/"+result]++
}

func (m *fakeMetrics) ObserveInvalidation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidations[outcome]++
}

// countingRepo 统计读取次数
type countingRepo struct {
	repository.SettingRepository
	mu    sync.Mutex
	reads int
	hook  func()
}

func (r *countingRepo) GetByKey(ctx context.Context, key string) (*models.AdminSetting, error) {
	r.mu.Lock()
	r.reads++
	r.mu.Unlock()
	if r.hook != nil {
		r.hook()
	}
	return r.SettingRepository.GetByKey(ctx, key)
}

func (r *countingRepo) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}
