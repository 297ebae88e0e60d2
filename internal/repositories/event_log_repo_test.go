package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BradenHooton/decoyra/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEventStore_ReadAllMissingFile(t *testing.T) {
	store := NewFileEventStore(filepath.Join(t.TempDir(), "attacks.log"))

	lines, err := store.ReadAll(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFileEventStore_AppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attacks.log")
	store := NewFileEventStore(path)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, models.LoginAttempt{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Endpoint:  "/login",
		ClientIP:  "1.2.3.4",
		Username:  "admin",
		Password:  "admin",
	}))
	require.NoError(t, store.Append(ctx, models.ScamMessage{ClientIP: "1.2.3.4", Text: "verify now"}))

	lines, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "\U0001F6A8 LOGIN ATTEMPT [2024-01-01 00:00:00]"))
	assert.Equal(t, "SCAM MESSAGE | IP=1.2.3.4 | TEXT=verify now", lines[1])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(raw), "\n"))
}

func TestFileEventStore_AppendToExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attacks.log")
	legacy := "SCAM MESSAGE | IP=8.8.8.8 | TEXT=hello\nnot an event\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := NewFileEventStore(path)
	require.NoError(t, store.Append(context.Background(), models.ScamMessage{ClientIP: "8.8.4.4", Text: "otp"}))

	lines, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SCAM MESSAGE | IP=8.8.8.8 | TEXT=hello",
		"not an event",
		"SCAM MESSAGE | IP=8.8.4.4 | TEXT=otp",
	}, lines)
}

func TestFileEventStore_AppendFailsWhenDirectoryMissing(t *testing.T) {
	store := NewFileEventStore(filepath.Join(t.TempDir(), "missing", "attacks.log"))

	err := store.Append(context.Background(), models.ScamMessage{ClientIP: "1.1.1.1", Text: "x"})

	assert.ErrorIs(t, err, models.ErrEventStoreUnavailable)
	assert.Error(t, store.HealthCheck(context.Background()))
}

func TestFileEventStore_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	store := NewFileEventStore(filepath.Join(t.TempDir(), "attacks.log"))
	ctx := context.Background()

	const writers = 20
	const perWriter = 25
	password := strings.Repeat("p", 4096)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				err := store.Append(ctx, models.LoginAttempt{
					Endpoint: "/login",
					ClientIP: fmt.Sprintf("10.0.0.%d", w),
					Username: fmt.Sprintf("user%d", i),
					Password: password,
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	lines, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, lines, writers*perWriter)

	for _, line := range lines {
		ev, err := DecodeEvent(line)
		require.NoError(t, err)
		assert.Equal(t, password, ev.(models.LoginAttempt).Password)
	}
}

func TestFileEventStore_HealthCheckLeavesMissingLogAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attacks.log")
	store := NewFileEventStore(path)

	assert.NoError(t, store.HealthCheck(context.Background()))

	assert.NoFileExists(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileEventStore_HealthCheckExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attacks.log")
	store := NewFileEventStore(path)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, models.ScamMessage{ClientIP: "1.1.1.1", Text: "hello"}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NoError(t, store.HealthCheck(ctx))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileEventStore_HealthCheckDirectoryIsFile(t *testing.T) {
	notDir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))
	store := NewFileEventStore(filepath.Join(notDir, "attacks.log"))

	assert.ErrorIs(t, store.HealthCheck(context.Background()), models.ErrEventStoreUnavailable)
}

func TestFileEventStore_HealthCheckDoesNotTakeAppendLock(t *testing.T) {
	store := NewFileEventStore(filepath.Join(t.TempDir(), "attacks.log"))

	store.mu.Lock()
	defer store.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- store.HealthCheck(context.Background())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("HealthCheck blocked on the append lock")
	}
}

func TestMemoryEventStore_ReadAllReturnsCopy(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, models.ScamMessage{ClientIP: "1.1.1.1", Text: "a"}))
	store.AppendRaw("garbage")

	lines, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	lines[0] = "mutated"
	again, _ := store.ReadAll(ctx)
	assert.Equal(t, "SCAM MESSAGE | IP=1.1.1.1 | TEXT=a", again[0])
	assert.Equal(t, "garbage", again[1])
}
