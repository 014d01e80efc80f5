package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/repository"
	"github.com/qs3c/criptex_server/internal/testutil"
)

func TestService_PurgeOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	now := time.Now().UTC()
	testutil.TestSession(t, db, user.ID, now.Add(-48*time.Hour))
	testutil.TestSession(t, db, user.ID, now.Add(-time.Hour))
	testutil.TestSession(t, db, user.ID, now.Add(time.Hour))

	repo := repository.NewSessionRepository(db)

	// 只清理过期超过一天的
	svc := NewService(repo, 24*time.Hour, time.Hour, false, logging.Nop())
	deleted, err := svc.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	svc = NewService(repo, 0, time.Hour, false, logging.Nop())
	deleted, err = svc.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, db.Table("sessions").Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestService_PurgeOnce_DryRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	testutil.TestSession(t, db, user.ID, time.Now().Add(-time.Hour))

	svc := NewService(repository.NewSessionRepository(db), 0, time.Hour, true, logging.Nop())
	count, err := svc.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var remaining int64
	require.NoError(t, db.Table("sessions").Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

// countingStore 记录调用次数
type countingStore struct {
	calls chan struct{}
}

func (s *countingStore) CountExpired(time.Time) (int64, error) { return 0, nil }

func (s *countingStore) DeleteExpired(time.Time) (int64, error) {
	select {
	case s.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestService_StartStop(t *testing.T) {
	store := &countingStore{calls: make(chan struct{}, 10)}
	svc := NewService(store, 0, 10*time.Millisecond, false, logging.Nop())

	svc.Start(context.Background())

	// 启动时立即执行，之后按间隔执行
	for i := 0; i < 2; i++ {
		select {
		case <-store.calls:
		case <-time.After(time.Second):
			t.Fatal("purge did not run")
		}
	}

	svc.Stop()
	svc.Stop()
}
